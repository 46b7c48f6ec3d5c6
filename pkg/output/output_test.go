package output

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

func testImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func TestPNGBytes(t *testing.T) {
	img := testImage(8, 4)
	data, err := PNGBytes(img)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decoding failed: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Fatalf("Expected bounds %v, got %v", img.Bounds(), decoded.Bounds())
	}
	r, g, _, _ := decoded.At(5, 3).RGBA()
	if r>>8 != 5 || g>>8 != 3 {
		t.Errorf("Expected pixel (5,3), got (%d,%d)", r>>8, g>>8)
	}
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		maxSize        uint
		expectedWidth  int
		expectedHeight int
	}{
		{"landscape", 200, 100, 50, 50, 25},
		{"portrait", 60, 120, 30, 15, 30},
		{"already small", 20, 10, 64, 20, 10},
		{"disabled", 200, 100, 0, 200, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb := Thumbnail(testImage(tt.width, tt.height), tt.maxSize)
			if thumb.Bounds().Dx() != tt.expectedWidth || thumb.Bounds().Dy() != tt.expectedHeight {
				t.Errorf("Expected %dx%d, got %v", tt.expectedWidth, tt.expectedHeight, thumb.Bounds())
			}
		})
	}
}

func TestFileSink(t *testing.T) {
	sink := FileSink{Dir: t.TempDir()}

	path, err := sink.Put(context.Background(), "renders/one-sphere.png", []byte("png"))
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(sink.Dir, "renders", "one-sphere.png") {
		t.Errorf("Unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "png" {
		t.Errorf("Expected written data, got %q (%v)", data, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sink.Put(ctx, "late.png", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

// fakeS3 records uploads
type fakeS3 struct {
	s3iface.S3API
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, input)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink(t *testing.T) {
	fake := &fakeS3{}
	sink, err := NewS3Sink(fake, "renders", "public-read")
	if err != nil {
		t.Fatal(err)
	}

	location, err := sink.Put(context.Background(), "scenes/cube.png", []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if location != "s3://renders/scenes/cube.png" {
		t.Errorf("Unexpected location %s", location)
	}
	if len(fake.inputs) != 1 {
		t.Fatalf("Expected one upload, got %d", len(fake.inputs))
	}

	input := fake.inputs[0]
	if aws.StringValue(input.Bucket) != "renders" || aws.StringValue(input.Key) != "scenes/cube.png" {
		t.Errorf("Unexpected target %s/%s", aws.StringValue(input.Bucket), aws.StringValue(input.Key))
	}
	if aws.StringValue(input.ContentType) != "image/png" || aws.Int64Value(input.ContentLength) != 3 {
		t.Errorf("Unexpected content headers %s %d", aws.StringValue(input.ContentType), aws.Int64Value(input.ContentLength))
	}
	if aws.StringValue(input.ACL) != "public-read" {
		t.Errorf("Expected public-read ACL, got %s", aws.StringValue(input.ACL))
	}
	if !bytes.Equal(fake.bodies[0], []byte{1, 2, 3}) {
		t.Errorf("Unexpected body %v", fake.bodies[0])
	}
}

func TestS3Sink_Errors(t *testing.T) {
	if _, err := NewS3Sink(&fakeS3{}, "", ""); !errors.Is(err, ErrNoBucket) {
		t.Errorf("Expected ErrNoBucket, got %v", err)
	}

	uploadErr := errors.New("access denied")
	sink, err := NewS3Sink(&fakeS3{err: uploadErr}, "renders", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sink.Put(context.Background(), "x.png", nil); !errors.Is(err, uploadErr) {
		t.Errorf("Expected wrapped upload error, got %v", err)
	}
}

func TestNewS3Client(t *testing.T) {
	client, err := NewS3Client(S3Config{
		AccessKey: "key",
		SecretKey: "secret",
		Endpoint:  "http://localhost:9000",
		Region:    "us-east-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if client.Endpoint != "http://localhost:9000" {
		t.Errorf("Expected custom endpoint, got %s", client.Endpoint)
	}
}
