// ABOUTME: Model capabilities the agents depend on: text completion and embeddings
// ABOUTME: Image attachments are carried as raw bytes and sent as data URLs
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// MaxImageBytes bounds a single uploaded image
const MaxImageBytes = 20 << 20

// Image is one uploaded picture attached to a completion
type Image struct {
	MIMEType string
	Data     []byte
}

// NewImage sniffs the MIME type of data when none is given
func NewImage(data []byte) Image {
	return Image{MIMEType: http.DetectContentType(data), Data: data}
}

// DataURL encodes the image for inline transport
func (i Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

var (
	// ErrImageTooLarge is returned for images over MaxImageBytes
	ErrImageTooLarge = errors.New("image is larger than 20 MB")
	// ErrNotImage is returned when the data does not sniff as an image
	ErrNotImage = errors.New("not an image")
)

// ParseImage sniffs data and rejects anything that is not an image
func ParseImage(data []byte) (Image, error) {
	if len(data) > MaxImageBytes {
		return Image{}, ErrImageTooLarge
	}
	img := NewImage(data)
	if !strings.HasPrefix(img.MIMEType, "image/") {
		return Image{}, fmt.Errorf("%w (%s)", ErrNotImage, img.MIMEType)
	}
	return img, nil
}

// ReadImageFile loads an image from disk, checking its size before reading
func ReadImageFile(path string) (Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Image{}, err
	}
	if info.Size() > MaxImageBytes {
		return Image{}, ErrImageTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	return ParseImage(data)
}

// CompletionRequest is a single system+user exchange expecting a JSON reply
type CompletionRequest struct {
	System      string
	Prompt      string
	Images      []Image
	Temperature float32
	// Model overrides the client's default chat model when set
	Model string
}

// Completer produces the raw text of one model reply
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Embedder turns text into a vector for similarity search
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
