package Storage_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Verdant/Storage"
)

func TestSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store := Storage.NewLocalStore(root, "/files")

	url, err := store.Save([]byte("%PDF-1.4 fake"), Storage.KindWeighTicketPDF, "ticket.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/files/"+Storage.KindWeighTicketPDF+"/"), url)
	assert.True(t, strings.HasSuffix(url, "_ticket.pdf"), url)

	rel := strings.TrimPrefix(url, "/files/")
	onDisk := filepath.Join(root, filepath.FromSlash(rel))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))

	require.NoError(t, store.Delete(url))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is not an error.
	require.NoError(t, store.Delete(url))
}

func TestSaveSanitizesName(t *testing.T) {
	store := Storage.NewLocalStore(t.TempDir(), "/files")

	url, err := store.Save([]byte("x"), Storage.KindWeightTickets, "../..\\weird name (1).pdf")
	require.NoError(t, err)
	assert.NotContains(t, url, "..")
	assert.NotContains(t, url, " ")
	assert.True(t, strings.HasSuffix(url, ".pdf"), url)
}

func TestDeleteIgnoresForeignURLs(t *testing.T) {
	store := Storage.NewLocalStore(t.TempDir(), "/files")

	assert.NoError(t, store.Delete(""))
	assert.NoError(t, store.Delete("/files/"))
	assert.NoError(t, store.Delete("/files/../../etc/passwd"))
}

func TestSavePhoto(t *testing.T) {
	store := Storage.NewLocalStore(t.TempDir(), "/files")

	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: 120, B: uint8(y * 8), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	url, err := store.SavePhoto(buf.Bytes(), Storage.KindDeliveryPhotos, "load.png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".jpg"), url)

	_, err = store.SavePhoto([]byte("not an image"), Storage.KindDeliveryPhotos, "bad.png")
	assert.Error(t, err)
}
