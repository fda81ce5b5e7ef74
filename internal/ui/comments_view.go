package ui

import (
	"fmt"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/reddish-app/reddish/internal/feed"
	"github.com/reddish-app/reddish/internal/model"
)

// ShowCommentsDialog opens a dialog for a post's comment tree. The tree is
// fetched in the background while the dialog shows a spinner.
func ShowCommentsDialog(window fyne.Window, svc *feed.Service, post model.Post) {
	spinner := widget.NewProgressBarInfinite()
	statusLabel := widget.NewLabel("Loading comments...")

	content := container.NewVBox(spinner, statusLabel)
	scroll := container.NewVScroll(content)
	scroll.SetMinSize(fyne.NewSize(CommentsDialogWidth, CommentsDialogHeight))

	d := dialog.NewCustom(post.DisplayTitle(), "Close", scroll, window)
	d.Resize(fyne.NewSize(CommentsDialogWidth, CommentsDialogHeight))
	d.Show()

	svc.LoadComments(post, func(full model.Post, tree *model.CommentTree, err error) {
		fyne.Do(func() {
			spinner.Hide()

			if err != nil {
				statusLabel.SetText(IconError + " Could not load comments. Close and try again.")
				return
			}

			content.Objects = buildCommentObjects(full, tree)
			content.Refresh()
		})
	})
}

// buildCommentObjects flattens the comment tree into indented rows, walking
// depth-first so replies render directly under their parents.
func buildCommentObjects(post model.Post, tree *model.CommentTree) []fyne.CanvasObject {
	objects := []fyne.CanvasObject{}

	if post.SelfText != "" {
		selfText := widget.NewLabel(post.SelfText)
		selfText.Wrapping = fyne.TextWrapWord
		objects = append(objects, selfText, widget.NewSeparator())
	}

	if tree == nil || tree.Len() == 0 {
		objects = append(objects, widget.NewLabel("No comments yet."))
		return objects
	}

	tree.Walk(func(idx, depth int) {
		objects = append(objects, newCommentRow(&tree.Nodes[idx].Comment, depth))
	})

	log.Printf("Rendered %d comments for post %s", tree.Len(), post.ID)
	return objects
}

// newCommentRow renders a single comment indented by its depth.
func newCommentRow(c *model.Comment, depth int) fyne.CanvasObject {
	header := widget.NewLabel(fmt.Sprintf("u/%s%s%d points", c.Author, MiddleDotSeparator, c.Score))
	header.TextStyle = fyne.TextStyle{Bold: true}

	body := widget.NewLabel(c.Body)
	body.Wrapping = fyne.TextWrapWord

	row := container.NewVBox(header, body, widget.NewSeparator())

	if depth == 0 {
		return row
	}

	// Indent with a transparent rectangle; depth is capped upstream by how
	// deep Reddit nests replies in a single response.
	indent := canvas.NewRectangle(color.RGBA{0, 0, 0, 0})
	indent.SetMinSize(fyne.NewSize(CommentIndentWidth*float32(depth), 1))
	return container.NewBorder(nil, nil, indent, nil, row)
}
