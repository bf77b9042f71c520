package services

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/kamal-hamza/dgrab/internal/core/domain"
)

// GalleryFilename is the file written into the cache directory
const GalleryFilename = "gallery.html"

// GalleryPage is the data rendered into the thumbnail gallery
type GalleryPage struct {
	Link   string
	Status string
	Images []domain.Attachment
}

type galleryCard struct {
	Index int
	URL   string
	Alt   string
	Label string
	Size  string
}

type galleryView struct {
	Link        string
	Status      string
	Placeholder string
	Cards       []galleryCard
	AllURLs     string
}

// GalleryService renders attachments as a clickable HTML thumbnail grid
type GalleryService struct {
	tmpl *template.Template
}

func NewGalleryService() *GalleryService {
	return &GalleryService{
		tmpl: template.Must(template.New("gallery").Parse(galleryTemplate)),
	}
}

// Render writes the gallery page to w
func (s *GalleryService) Render(w io.Writer, page GalleryPage) error {
	view := galleryView{
		Link:        page.Link,
		Status:      page.Status,
		Placeholder: domain.NoImagesMessage,
		AllURLs:     domain.JoinURLs(domain.URLs(page.Images)),
	}
	if view.Status == "" {
		view.Status = domain.StatusSummary(len(page.Images))
	}

	for i, img := range page.Images {
		view.Cards = append(view.Cards, galleryCard{
			Index: i + 1,
			URL:   img.URL,
			Alt:   img.AltText(i),
			Label: img.DisplayName(),
			Size:  img.HumanSize(),
		})
	}

	if err := s.tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render gallery: %w", err)
	}
	return nil
}

// WriteFile renders the gallery to path, creating its directory if needed
func (s *GalleryService) WriteFile(path string, page GalleryPage) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create gallery file: %w", err)
	}
	defer f.Close()

	if err := s.Render(f, page); err != nil {
		return "", err
	}
	return path, nil
}

const galleryTemplate = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>dgrab gallery</title>
<style>
	body { font-family: sans-serif; background: #1a1b26; color: #a9b1d6; padding: 20px; }
	.grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(200px, 1fr)); gap: 20px; }
	.attachment-item { background: #24283b; border-radius: 8px; padding: 10px; cursor: pointer; position: relative; }
	.attachment-item:hover { outline: 2px solid #7aa2f7; }
	.attachment-thumb { width: 100%; height: 150px; object-fit: contain; background: #000; }
	.attachment-label { color: #7aa2f7; font-weight: bold; display: block; margin-top: 5px; word-break: break-all; }
	.attachment-size { font-size: 0.8em; color: #565f89; }
	.attachment-index { position: absolute; top: 6px; left: 10px; background: #7aa2f7; color: #1a1b26; border-radius: 4px; padding: 0 6px; }
	.placeholder { color: #565f89; font-style: italic; }
	#status { color: #cccccc; }
	#copyAllBtn { margin: 10px 0 20px; padding: 6px 14px; }
	#toast { position: fixed; bottom: 20px; right: 20px; background: #7aa2f7; color: #1a1b26; padding: 8px 14px; border-radius: 6px; opacity: 0; transition: opacity .2s; }
	#toast.show { opacity: 1; }
</style></head>
<body>
<h1>dgrab</h1>
{{if .Link}}<p class="placeholder">{{.Link}}</p>{{end}}
<p id="status">{{.Status}}</p>
<button id="copyAllBtn" data-copy="{{.AllURLs}}"{{if not .Cards}} disabled{{end}}>Copy All</button>
<div class="grid" id="attachmentsList">
{{- range .Cards}}
	<div class="attachment-item" data-copy="{{.URL}}">
		<img class="attachment-thumb" src="{{.URL}}" alt="{{.Alt}}" loading="lazy">
		<div class="attachment-label">{{.Label}}</div>
		{{if .Size}}<div class="attachment-size">{{.Size}}</div>{{end}}
		<div class="attachment-index">{{.Index}}</div>
	</div>
{{- else}}
	<p class="placeholder">{{.Placeholder}}</p>
{{- end}}
</div>
<div id="toast"></div>
<script>
	function showToast(text) {
		const t = document.getElementById("toast");
		t.textContent = text;
		t.classList.add("show");
		setTimeout(() => t.classList.remove("show"), 1600);
	}
	function copy(text, ok) {
		navigator.clipboard.writeText(text)
			.then(() => showToast(ok))
			.catch(() => showToast("Failed to copy"));
	}
	document.querySelectorAll(".attachment-item").forEach((el) => {
		el.addEventListener("click", () => copy(el.dataset.copy, "Image URL copied"));
	});
	const all = document.getElementById("copyAllBtn");
	all.addEventListener("click", () => {
		if (!all.dataset.copy) return;
		copy(all.dataset.copy, "All image URLs copied");
	});
</script>
</body></html>
`
