package services

import (
	"context"
	"errors"
	"strings"

	"github.com/z-haral/Halal-Checker/utils"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// OCRService extracts ingredient text from label images via Rekognition.
type OCRService struct {
	client *rekognition.Client
}

func NewOCRService() *OCRService {
	return &OCRService{client: utils.RekClient()}
}

// ExtractIngredients reads the text lines off a base64-encoded label image
// and joins them into a single comma-separated ingredient string.
func (o *OCRService) ExtractIngredients(ctx context.Context, imageDataURI string) (string, error) {
	data, _, err := utils.DecodeImageDataURI(imageDataURI)
	if err != nil {
		return "", err
	}

	out, err := o.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: data},
	})
	if err != nil {
		return "", err
	}

	var lines []string
	for _, d := range out.TextDetections {
		if d.Type == types.TextTypesLine && d.DetectedText != nil {
			lines = append(lines, *d.DetectedText)
		}
	}
	if len(lines) == 0 {
		return "", errors.New("no text detected in image")
	}
	return strings.Join(lines, ", "), nil
}
