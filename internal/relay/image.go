package relay

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const pngDataURIPrefix = "data:image/png;base64,"

var (
	// ErrImageNotFound is returned when the image path does not exist.
	ErrImageNotFound = errors.New("image not found")
	// ErrImageUnreadable is returned for any other failure reading the image.
	ErrImageUnreadable = errors.New("image unreadable")
)

// ImageDataURI reads the file at path and returns it as a base64 PNG data URI.
// The media type is always image/png regardless of the file contents.
func ImageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return "", fmt.Errorf("%w: %v", ErrImageUnreadable, err)
	}
	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}
