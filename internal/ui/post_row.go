package ui

import (
	"context"
	"image/color"
	"log"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/reddish-app/reddish/internal/imagecache"
	"github.com/reddish-app/reddish/internal/model"
)

// PostRow represents a compact post row widget: thumbnail on the left, title
// as a link, post metadata, and a comments button.
type PostRow struct {
	widget.BaseWidget

	post   model.Post
	images *imagecache.Cache

	// thumbGen invalidates in-flight thumbnail loads when the list recycles
	// this row for a different post.
	thumbGen atomic.Uint64

	// UI components
	thumbnail  *canvas.Image
	titleLink  *widget.Hyperlink
	metaLabel  *widget.Label
	scoreLabel *widget.Label

	commentsBtn *widget.Button

	// Callbacks
	onOpenComments func(post model.Post)
}

// NewPostRow creates a new post row widget
func NewPostRow(images *imagecache.Cache) *PostRow {
	pr := &PostRow{
		images: images,
	}
	pr.ExtendBaseWidget(pr)
	pr.createUI()
	return pr
}

// SetCallbacks sets the action callbacks
func (pr *PostRow) SetCallbacks(onOpenComments func(post model.Post)) {
	pr.onOpenComments = onOpenComments
}

// UpdatePost updates the row with new post data
func (pr *PostRow) UpdatePost(post model.Post) {
	pr.post = post
	pr.updateFromPost()
	pr.Refresh()
}

// createUI creates the UI components
func (pr *PostRow) createUI() {
	pr.thumbnail = &canvas.Image{FillMode: canvas.ImageFillContain}
	pr.thumbnail.SetMinSize(fyne.NewSize(ThumbnailSize, ThumbnailSize))

	pr.titleLink = widget.NewHyperlink("", nil)
	pr.titleLink.Wrapping = fyne.TextWrapWord
	pr.titleLink.Truncation = fyne.TextTruncateEllipsis
	pr.titleLink.TextStyle = fyne.TextStyle{Bold: true}

	pr.metaLabel = widget.NewLabel("")
	pr.metaLabel.Alignment = fyne.TextAlignLeading

	pr.scoreLabel = widget.NewLabel("")
	pr.scoreLabel.Alignment = fyne.TextAlignTrailing
	pr.scoreLabel.TextStyle = fyne.TextStyle{Monospace: true}

	pr.commentsBtn = widget.NewButton("", func() {
		if pr.onOpenComments != nil {
			pr.onOpenComments(pr.post)
		}
	})
	pr.commentsBtn.Importance = widget.LowImportance
}

// updateFromPost updates UI components based on post data
func (pr *PostRow) updateFromPost() {
	pr.titleLink.SetText(pr.post.DisplayTitle())
	if err := pr.titleLink.SetURLFromString(pr.post.URL); err != nil {
		log.Printf("Invalid post URL for %s: %v", pr.post.ID, err)
	}

	meta := pr.post.DisplayMeta() + MiddleDotSeparator + pr.post.Age()
	if pr.post.NSFW {
		meta += MiddleDotSeparator + "NSFW"
	}
	pr.metaLabel.SetText(meta)

	pr.scoreLabel.SetText(IconUp + " " + pr.post.ScoreString())
	pr.commentsBtn.SetText(IconComments + " " + pr.post.CommentsString())

	pr.loadThumbnail()
}

// loadThumbnail fetches the post thumbnail in the background. The generation
// check discards results that finish after the row has been recycled.
func (pr *PostRow) loadThumbnail() {
	gen := pr.thumbGen.Add(1)

	pr.thumbnail.Image = nil
	pr.thumbnail.Resource = nil
	pr.thumbnail.Refresh()

	if !pr.post.HasThumbnail() {
		return
	}

	url := pr.post.ThumbnailURL
	go func() {
		img, err := pr.images.GetOrFetch(context.Background(), url)
		if err != nil {
			log.Printf("Failed to load thumbnail %s: %v", url, err)
			return
		}

		fyne.Do(func() {
			if pr.thumbGen.Load() != gen {
				return
			}
			pr.thumbnail.Image = img
			pr.thumbnail.Refresh()
		})
	}()
}

// CreateRenderer creates the widget renderer
func (pr *PostRow) CreateRenderer() fyne.WidgetRenderer {
	return &postRowRenderer{postRow: pr}
}

// postRowRenderer renders the post row widget
type postRowRenderer struct {
	postRow *PostRow
	layout  *fyne.Container
}

// Layout arranges the components
func (r *postRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	if size.Height < RowMinHeight {
		size.Height = RowMinHeight
	}
	r.layout.Resize(size)
}

// MinSize returns the minimum size
func (r *postRowRenderer) MinSize() fyne.Size {
	if r.layout != nil {
		return r.layout.MinSize()
	}
	return fyne.NewSize(RowMinWidth, RowMinHeight)
}

// Refresh refreshes the renderer
func (r *postRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

// Objects returns the container objects
func (r *postRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *postRowRenderer) Destroy() {}

// createLayout creates the main layout
func (r *postRowRenderer) createLayout() {
	pr := r.postRow

	// Fix the thumbnail cell size using a transparent rectangle underneath
	// so rows without an image keep their shape.
	spacer := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
	spacer.SetMinSize(fyne.NewSize(ThumbnailSize, ThumbnailSize))
	thumbnailCell := container.NewStack(spacer, pr.thumbnail)

	actionRow := container.NewHBox(pr.scoreLabel, pr.commentsBtn)

	body := container.NewVBox(
		pr.titleLink,
		pr.metaLabel,
		actionRow,
	)

	mainContent := container.NewBorder(nil, nil, thumbnailCell, nil, body)

	r.layout = container.NewVBox(
		mainContent,
		widget.NewSeparator(),
	)
}
