package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// Annotator turns raw image bytes into an OCR result.
type Annotator interface {
	Annotate(ctx context.Context, image []byte) (*Result, error)
}

// VisionClient adapts the Google Vision image annotator to the Annotator
// contract using document text detection.
type VisionClient struct {
	client *vision.ImageAnnotatorClient
	logger *slog.Logger
}

// NewVisionClient dials the Vision API. credentialsFile may be empty, in
// which case application default credentials apply.
func NewVisionClient(ctx context.Context, credentialsFile string, logger *slog.Logger) (*VisionClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}
	return &VisionClient{client: client, logger: logger}, nil
}

// Annotate runs document text detection on the image and converts the
// response into a Result.
func (c *VisionClient) Annotate(ctx context.Context, image []byte) (*Result, error) {
	img, err := vision.NewImageFromReader(bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	resp, err := c.client.AnnotateImage(ctx, &visionpb.AnnotateImageRequest{
		Image: img,
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("annotate image: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("annotate image: %s", resp.Error.GetMessage())
	}

	res := fromEntityAnnotations(resp.TextAnnotations)
	c.logger.Debug("ocr.annotate.ok", "annotations", len(res.Annotations))
	return res, nil
}

// Close releases the underlying connection.
func (c *VisionClient) Close() error {
	return c.client.Close()
}

func fromEntityAnnotations(anns []*visionpb.EntityAnnotation) *Result {
	res := &Result{Annotations: make([]Annotation, 0, len(anns))}
	for _, ann := range anns {
		a := Annotation{Description: ann.GetDescription()}
		for _, v := range ann.GetBoundingPoly().GetVertices() {
			a.BoundingPoly.Vertices = append(a.BoundingPoly.Vertices, Vertex{
				X: float64(v.GetX()),
				Y: float64(v.GetY()),
			})
		}
		res.Annotations = append(res.Annotations, a)
	}
	return res
}
