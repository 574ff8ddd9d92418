// Package docs provides a client for exporting content to Google Docs.
//
// Its main job is turning a project plan rendered as simple markdown into
// a styled Google Doc: MarkdownRequests converts headings, bullets, and
// bold spans into Docs batch-update requests, and CreateFromMarkdown
// creates the document and returns its metadata including the web view
// link (via the Drive API).
//
// Authentication uses the unified Google OAuth token from the google
// package through the TokenProvider interface, so callers can supply
// per-session tokens or fall back to the file-based cache.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := docs.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	meta, err := client.CreateFromMarkdown("Project plan: launch", planMarkdown)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(meta.WebViewLink)
package docs
