package message

import "fmt"

// Version is an HTTP protocol version.
type Version struct {
	Major int
	Minor int
}

// HTTP11 is the default version for new messages.
var HTTP11 = Version{Major: 1, Minor: 1}

// String returns the wire form, e.g. "HTTP/1.1".
func (v Version) String() string {
	return fmt.Sprintf("HTTP/%d.%d", v.Major, v.Minor)
}
