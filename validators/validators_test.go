package validators

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/spf13/viper"
)

func TestEmailValidator(t *testing.T) {
	tests := []struct {
		email    string
		expected error
	}{
		{"", ErrEmailEmpty},
		{"not-an-email", ErrEmailInvalid},
		{"user@@example.com", ErrEmailInvalid},
		{"user@example.com", nil},
		{"User Name <user@example.com>", nil},
	}

	for _, test := range tests {
		if got := EmailValidator(test.email); got != test.expected {
			t.Errorf("%q: expected %v, got %v", test.email, test.expected, got)
		}
	}
}

func TestPasswordValidator(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		password string
		expected error
	}{
		{"", ErrPasswordEmpty},
		{"short", ErrPasswordTooShort},
		{string(long), ErrPasswordTooLong},
		{"longenough", nil},
	}

	for _, test := range tests {
		if got := PasswordValidator(test.password); got != test.expected {
			t.Errorf("expected %v, got %v", test.expected, got)
		}
	}
}

// pngHeader is the 8-byte PNG signature plus a chunk start, enough for
// content sniffing to call it image/png
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func makeFileHeader(t *testing.T, name, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, name))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	w.Close()

	r := multipart.NewReader(&buf, w.Boundary())
	form, err := r.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func TestMediaValidator(t *testing.T) {
	viper.Set("upload.max_size", int64(1<<20))

	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		expected    error
		code        int
	}{
		{"valid png", "photo.png", "image/png", pngHeader, nil, 0},
		{"declared text", "notes.txt", "text/plain", []byte("hello"), ErrFileTypeUnsupported, http.StatusBadRequest},
		{"spoofed header", "photo.png", "image/png", []byte("just some text content here"), ErrFileTypeUnsupported, http.StatusBadRequest},
	}

	for _, test := range tests {
		fh := makeFileHeader(t, test.filename, test.contentType, test.data)

		code, f, err := MediaValidator(fh)
		if err != test.expected {
			t.Errorf("%s: expected %v, got %v", test.name, test.expected, err)
		}
		if code != test.code {
			t.Errorf("%s: expected code %d, got %d", test.name, test.code, code)
		}
		if f != nil {
			f.Close()
		}
	}
}

func TestMediaValidatorNoFile(t *testing.T) {
	code, _, err := MediaValidator(nil)
	if err != ErrNoFile {
		t.Errorf("expected ErrNoFile, got %v", err)
	}
	if code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestMediaValidatorTooLarge(t *testing.T) {
	viper.Set("upload.max_size", int64(4))

	fh := makeFileHeader(t, "photo.png", "image/png", pngHeader)

	code, _, err := MediaValidator(fh)
	if err != ErrFileTooLarge {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
	if code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", code)
	}
}
