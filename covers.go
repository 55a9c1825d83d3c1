package folio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/eringen/folio/cover"
)

const maxUploadSize = 10 << 20 // 10MB

// fitCover scales img to fill width×height, cropping the overflow evenly
// from both sides, and encodes it as JPEG.
func fitCover(src io.Reader, width, height, quality int) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}

	// Largest source rectangle with the target aspect ratio.
	crop := b
	if w*height > h*width {
		cw := h * width / height
		crop.Min.X += (w - cw) / 2
		crop.Max.X = crop.Min.X + cw
	} else {
		ch := w * height / width
		crop.Min.Y += (h - ch) / 2
		crop.Max.Y = crop.Min.Y + ch
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// handleCoverUpload replaces a post's cover image with an uploaded file,
// resized to the cover dimensions.
func (a *App) handleCoverUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	post, err := a.Cache.GetPost(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	opts := cover.DefaultOptions()
	data, err := fitCover(src, opts.Width, opts.Height, opts.Quality)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := filepath.Join(a.Config.PublicDir, filepath.FromSlash(cover.ImageDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cover dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cover.FileName(post.Slug)), data, 0o644); err != nil {
		return fmt.Errorf("write cover: %w", err)
	}

	msg := "Cover updated for " + post.Slug + "."
	if post.Meta.CoverImage != cover.PublicPath(post.Slug) {
		msg += " Set coverImage to " + cover.PublicPath(post.Slug) + " to use it."
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg="+url.QueryEscape(msg))
}
