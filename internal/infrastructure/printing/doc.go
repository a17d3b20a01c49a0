// Package printing draws an invoice view into documents.
//
// Two backends implement Renderer:
//   - VectorRenderer places text and shapes directly with gofpdf (format pdf)
//   - HTMLRenderer fills an embedded HTML layout and captures it with headless
//     Chrome through chromedp (html-pdf, png, jpeg, webp)
//
// RendererSet combines them so callers pick a backend by output format.
// FileSystemStorage archives rendered documents by file name.
//
// Example usage:
//
//	converter, _ := NewChromedpConverter(&ChromedpConfig{NoSandbox: true})
//	htmlRenderer, err := NewHTMLRenderer(HTMLRendererConfig{Converter: converter})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	renderers := NewRendererSet(NewVectorRenderer(nil), htmlRenderer)
//
//	result, err := renderers.Render(ctx, &RenderRequest{
//	    View:   view,
//	    Format: printing.FormatPDF,
//	})
package printing
