package bundler

import (
	"fmt"
	"path"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
)

const fsNamespace = "afero"

// fsPlugin routes esbuild's resolve and load phases through an afero
// filesystem, so nested builds work against in-memory input the same way
// they work against disk. Resolution covers entry points and relative
// imports; bare module specifiers are not supported on virtual filesystems.
func fsPlugin(fsys afero.Fs) api.Plugin {
	return api.Plugin{
		Name: "afero-fs",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `.*`}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				p := args.Path
				if !path.IsAbs(p) && args.Importer != "" {
					p = path.Join(path.Dir(args.Importer), p)
				}
				for _, cand := range candidates(p) {
					ok, err := afero.Exists(fsys, cand)
					if err != nil {
						return api.OnResolveResult{}, err
					}
					if ok {
						return api.OnResolveResult{Path: cand, Namespace: fsNamespace}, nil
					}
				}
				return api.OnResolveResult{}, fmt.Errorf("cannot resolve %q from %q", args.Path, args.Importer)
			})

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: fsNamespace}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
				data, err := afero.ReadFile(fsys, args.Path)
				if err != nil {
					return api.OnLoadResult{}, err
				}
				contents := string(data)
				return api.OnLoadResult{
					Contents:   &contents,
					Loader:     loaderFor(args.Path),
					ResolveDir: path.Dir(args.Path),
				}, nil
			})
		},
	}
}

// candidates lists the paths tried for one import specifier, mirroring the
// usual extension and index resolution.
func candidates(p string) []string {
	return []string{
		p,
		p + ".js",
		p + ".mjs",
		p + ".ts",
		path.Join(p, "index.js"),
	}
}

func loaderFor(p string) api.Loader {
	switch {
	case strings.HasSuffix(p, ".ts"):
		return api.LoaderTS
	case strings.HasSuffix(p, ".json"):
		return api.LoaderJSON
	default:
		return api.LoaderJS
	}
}
