package cardmarket

import (
	"os"
	"path/filepath"
)

// Diagnostics writes raw response bodies to disk so that a page that broke
// the scraper can be inspected afterwards. The zero value writes to the
// working directory.
type Diagnostics struct {
	Dir string
}

// Dump writes `body` to a file called `name` and returns its path.
func (d Diagnostics) Dump(name string, body []byte) (string, error) {
	path := name
	if d.Dir != "" {
		err := os.MkdirAll(d.Dir, 0777)
		if err != nil {
			return path, err
		}
		path = filepath.Join(d.Dir, name)
	}
	err := os.WriteFile(path, body, 0600)
	if err != nil {
		return path, err
	}
	return path, nil
}
