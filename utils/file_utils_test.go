package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFileType(t *testing.T) {
	assert.NoError(t, ValidateFileType("photo.jpg", "image"))
	assert.NoError(t, ValidateFileType("clip.MP4", "video"))
	assert.Error(t, ValidateFileType("script.exe", "image"))
	assert.Error(t, ValidateFileType("photo.jpg", "video"))
	assert.Error(t, ValidateFileType("photo.jpg", "audio"))
}

func TestMediaTypeFromContentType(t *testing.T) {
	mediaType, err := MediaTypeFromContentType("image/png")
	require.NoError(t, err)
	assert.Equal(t, "image", mediaType)

	mediaType, err = MediaTypeFromContentType("video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "video", mediaType)

	_, err = MediaTypeFromContentType("application/pdf")
	assert.Error(t, err)
}

func TestGenerateStoredFilename(t *testing.T) {
	name := GenerateStoredFilename("My Photo!.JPG")
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	// New name every call
	assert.NotEqual(t, name, GenerateStoredFilename("My Photo!.JPG"))
}

func TestUploadFileToPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	url, err := UploadFileToPath([]byte("fake-image-bytes"), "abc123.jpg", "image", "posts")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/posts/abc123.jpg", url)

	data, err := os.ReadFile(filepath.Join("uploads", "posts", "abc123.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-image-bytes"), data)
}

func TestUploadFileToPathRejectsOversized(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	big := make([]byte, MaxFileSize+1)
	_, err = UploadFileToPath(big, "big.jpg", "image", "posts")
	assert.Error(t, err)
}
