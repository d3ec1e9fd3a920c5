package remote

import "github.com/five82/albumsync/internal/album"

// NetworkAlbum mirrors one element of the /albums payload.
type NetworkAlbum struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
}

// Response is the result of a request that reached the server.
type Response struct {
	Successful bool
	StatusCode int
	// Body is nil when the response was not successful or carried no payload.
	Body []NetworkAlbum
}

// Albums maps the response body to domain albums. A missing body yields an
// empty, non-nil slice.
func (r Response) Albums() []album.Album {
	out := make([]album.Album, 0, len(r.Body))
	for _, n := range r.Body {
		out = append(out, n.Album())
	}
	return out
}

// Album converts the wire form into the domain value.
func (n NetworkAlbum) Album() album.Album {
	return album.Album{UserID: n.UserID, ID: n.ID, Title: n.Title}
}

// FromAlbums converts domain albums into the wire form.
func FromAlbums(albums []album.Album) []NetworkAlbum {
	out := make([]NetworkAlbum, 0, len(albums))
	for _, a := range albums {
		out = append(out, NetworkAlbum{UserID: a.UserID, ID: a.ID, Title: a.Title})
	}
	return out
}
