// Package sdk provides a Go client for the docsage document Q&A API.
//
// The client wraps the HTTP surface: document upload and indexing, passage
// retrieval, and generated answers, summaries and question sets.
//
//	client := sdk.New("http://localhost:8080", sdk.WithAPIKey("secret"))
//	receipt, _ := client.ProcessFile(ctx, "manual.pdf", data)
//	answer, _ := client.Ask(ctx, sdk.AskRequest{
//	    Collection: receipt.Collection,
//	    Question:   "How do I reset the device?",
//	})
package sdk
