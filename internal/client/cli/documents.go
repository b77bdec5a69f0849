package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/prepio/prepio-cli/internal/client/models"
	"github.com/prepio/prepio-cli/internal/client/services"
)

// readFileFn is a test seam for reading upload content from disk.
var readFileFn = os.ReadFile

func parseKind(s string) (models.DocumentKind, bool) {
	switch s {
	case "resume":
		return models.KindResume, true
	case "jd", "job_description":
		return models.KindJobDescription, true
	}
	return "", false
}

// Upload sends a PDF to the server as either a resume or a job
// description. Usage: upload <resume|jd> <path>. Uploading a kind that
// already exists replaces the previous document.
func (a *App) Upload(ctx context.Context, args []string) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	if len(args) < 2 {
		printlnFn("Usage: upload <resume|jd> <path>")
		return nil
	}

	kind, ok := parseKind(args[0])
	if !ok {
		printlnFn("Unknown document kind:", args[0])
		return nil
	}

	path := args[1]
	content, err := readFileFn(path)
	if err != nil {
		log.Printf("Could not read file: %s", err.Error())
		return err
	}

	doc, err := a.documents.Upload(ctx, kind, filepath.Base(path), content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedFormat):
			printlnFn("Only PDF files are supported.")
		case errors.Is(err, services.ErrFileTooLarge):
			printlnFn("File exceeds the 2 MiB limit.")
		default:
			log.Printf("Upload failed: %s", err.Error())
		}
		return err
	}

	printlnFn(fmt.Sprintf("Uploaded %s (%s), id %s", doc.OriginalName, doc.Kind, doc.ID))
	a.printReadiness(a.documents.Readiness())
	return nil
}

// Docs fetches and lists the uploaded documents.
func (a *App) Docs(ctx context.Context) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	docs, err := a.documents.Refresh(ctx)
	if err != nil {
		log.Printf("Could not list documents: %s", err.Error())
		return err
	}

	if len(docs) == 0 {
		printlnFn("No documents uploaded yet.")
		return nil
	}

	for _, d := range docs {
		printlnFn(fmt.Sprintf("%s  %-15s  %s  %s", d.ID, d.Kind, d.UploadedAt.Format("2006-01-02 15:04"), d.OriginalName))
	}
	return nil
}

// Delete removes a document by id. Usage: delete <id>.
func (a *App) Delete(ctx context.Context, args []string) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	if len(args) == 0 {
		printlnFn("Usage: delete <id>")
		return nil
	}

	if err := a.documents.Delete(ctx, args[0]); err != nil {
		log.Printf("Could not delete document: %s", err.Error())
		return err
	}

	printlnFn("Deleted.")
	a.printReadiness(a.documents.Readiness())
	return nil
}

// Status asks the server whether the interview prerequisites are met.
func (a *App) Status(ctx context.Context) error {
	if !a.requireAuth(ctx) {
		return nil
	}

	st, err := a.documents.CheckReadiness(ctx)
	if err != nil {
		log.Printf("Could not check readiness: %s", err.Error())
		return err
	}

	a.printReadiness(st)
	return nil
}

func (a *App) printReadiness(st models.ReadinessStatus) {
	mark := func(b bool) string {
		if b {
			return "ok"
		}
		return "missing"
	}
	printlnFn(fmt.Sprintf("Resume: %s, job description: %s", mark(st.HasResume), mark(st.HasJobDescription)))
	if st.ReadyForChat {
		printlnFn("Ready for interview practice. Type 'chat' to begin.")
	} else {
		printlnFn("Upload the missing documents to unlock interview practice.")
	}
}
