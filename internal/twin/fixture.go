package twin

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/five82/albumsync/internal/album"
)

//go:embed fixtures/albums.yaml
var defaultFixture []byte

type fixtureFile struct {
	Albums []fixtureAlbum `yaml:"albums"`
}

type fixtureAlbum struct {
	UserID int    `yaml:"user_id"`
	ID     int    `yaml:"id"`
	Title  string `yaml:"title"`
}

// DefaultAlbums returns the built-in catalogue.
func DefaultAlbums() []album.Album {
	albums, err := ParseFixture(defaultFixture)
	if err != nil {
		panic(fmt.Sprintf("twin: embedded fixture: %v", err))
	}
	return albums
}

// LoadFixture reads a YAML album catalogue from path.
func LoadFixture(path string) ([]album.Album, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	albums, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	return albums, nil
}

// ParseFixture decodes a YAML document of the form
//
//	albums:
//	  - {user_id: 1, id: 1, title: first}
//
// Negative ids are rejected.
func ParseFixture(data []byte) ([]album.Album, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	albums := make([]album.Album, 0, len(f.Albums))
	for i, a := range f.Albums {
		if a.ID < 0 || a.UserID < 0 {
			return nil, fmt.Errorf("album %d: negative id", i)
		}
		albums = append(albums, album.Album{UserID: a.UserID, ID: a.ID, Title: a.Title})
	}
	return albums, nil
}
