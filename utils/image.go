package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeImageDataURI splits a "data:<mime>;base64,<data>" URI into raw
// bytes and the content type.
func DecodeImageDataURI(dataURI string) ([]byte, string, error) {
	parts := strings.Split(dataURI, ",")
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "data:image") {
		return nil, "", fmt.Errorf("invalid image data URI")
	}

	mediaType := strings.SplitN(parts[0], ":", 2)[1]    // "image/jpeg;base64"
	contentType := strings.SplitN(mediaType, ";", 2)[0] // "image/jpeg"

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %v", err)
	}
	return data, contentType, nil
}
