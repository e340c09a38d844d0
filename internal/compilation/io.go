package compilation

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LoadDir reads every file under dir on the input filesystem into the asset
// store, keyed by forward-slash path relative to dir. Modification times are
// preserved so revision caches can skip unchanged assets.
func (c *Compilation) LoadDir(dir string) error {
	return afero.Walk(c.inputFS, dir, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := afero.ReadFile(c.inputFS, p)
		if err != nil {
			return fmt.Errorf("reading asset %s: %w", p, err)
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		name := path.Clean(strings.ReplaceAll(rel, string(filepath.Separator), "/"))

		c.mu.Lock()
		c.assets[name] = &Asset{Name: name, Source: data, ModTime: info.ModTime()}
		c.mu.Unlock()
		return nil
	})
}

// WriteAssets writes every asset to the output filesystem under the build's
// output directory.
func (c *Compilation) WriteAssets() error {
	outDir := c.meta.OutputDir
	for _, a := range c.Assets() {
		target := filepath.Join(outDir, filepath.FromSlash(a.Name))
		if err := c.outputFS.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("creating output directory for %s: %w", a.Name, err)
		}
		if err := afero.WriteFile(c.outputFS, target, a.Source, 0644); err != nil {
			return fmt.Errorf("writing asset %s: %w", a.Name, err)
		}
	}
	return nil
}
