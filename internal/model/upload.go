package model

import "io"

// Upload is a file received from a client
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}
