package item

import (
	"github.com/danmuck/bridgectl/internal/protocol/tag"
	"github.com/danmuck/bridgectl/internal/text"
)

func translateWritableBook(r text.Renderer, d Description, ctx Context, out *tag.Tree) {
	pages, ok := d.BookPages()
	if !ok {
		return
	}
	out.PutCompoundList("pages", bookPages(r, pages, ctx.Locale))
}

func translateWrittenBook(r text.Renderer, d Description, ctx Context, out *tag.Tree) {
	book, ok := d.WrittenBook()
	if !ok {
		return
	}
	out.PutCompoundList("pages", bookPages(r, book.Pages, ctx.Locale))
	out.PutString("title", book.Title)
	out.PutString("author", book.Author)
	out.PutInt("generation", int32(book.Generation))
}

// bookPages renders each raw page leniently; malformed JSON stays plain text.
func bookPages(r text.Renderer, pages []string, locale string) []*tag.Tree {
	out := make([]*tag.Tree, 0, len(pages))
	for _, raw := range pages {
		page := tag.New()
		page.PutString("photoname", "")
		page.PutString("text", r.RenderLenient(raw, locale))
		out = append(out, page)
	}
	return out
}
