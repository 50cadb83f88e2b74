package probe

import (
	"fmt"
	"net/url"
)

// Response holds the normalized outcome of a single probe. Length is the
// byte length of the decoded body, not the Content-Length header.
type Response struct {
	Word       string
	URL        string // resolved request URL after substitution
	StatusCode int
	Body       string
	Length     int
}

// Format renders the response as an output line. The default form is the
// bare resolved URL; verbose mode shows the URL path, status and size.
func (r *Response) Format(verbose bool) string {
	if !verbose {
		return r.URL
	}
	path := ""
	if u, err := url.Parse(r.URL); err == nil {
		path = u.Path
	}
	return fmt.Sprintf("%-30s (%3d) [Size: %d]", path, r.StatusCode, r.Length)
}
