package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/securenotes/internal/models"
	"github.com/google/uuid"
)

var errUsage = errors.New("usage")

const timeLayout = "2006-01-02 15:04"

// List prints notes, newest first. An optional argument filters by category.
func (a *App) List(ctx context.Context, args []string) error {
	categoryID := ""
	if len(args) > 0 {
		categoryID = args[0]
	}

	list, err := a.svc.Notes.List(ctx, categoryID)
	if err != nil {
		a.report(ctx, "list", err)
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No notes.")
		return nil
	}
	for _, n := range list {
		fmt.Fprintf(a.out, "%s  %s  %s\n", n.ID, n.UpdatedAt.Local().Format(timeLayout), n.Title)
	}
	return nil
}

// Show prints a single note.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter note id")
	if err != nil {
		return err
	}

	n, err := a.svc.Notes.Get(ctx, id)
	if err != nil {
		a.report(ctx, "show", err)
		return err
	}
	if n == nil {
		failure(a.out, "Note %s not found.", id)
		return nil
	}

	fmt.Fprintln(a.out, n.Title)
	fmt.Fprintln(a.out, strings.Repeat("-", len(n.Title)))
	fmt.Fprintln(a.out, n.Content)
	if n.CategoryID != "" {
		fmt.Fprintf(a.out, "category: %s\n", n.CategoryID)
	}
	fmt.Fprintf(a.out, "created: %s  updated: %s\n",
		n.CreatedAt.Local().Format(timeLayout), n.UpdatedAt.Local().Format(timeLayout))
	return nil
}

// AddNote prompts for a new note and saves it under a fresh ID.
func (a *App) AddNote(ctx context.Context) error {
	n := &models.Note{ID: uuid.NewString()}
	if err := a.promptNote(n); err != nil {
		return err
	}

	if err := a.svc.Notes.Save(ctx, n); err != nil {
		a.report(ctx, "addnote", err)
		return err
	}
	success(a.out, "Note %s saved.", n.ID)
	return nil
}

// EditNote replaces the title, content and category of an existing note.
func (a *App) EditNote(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter note id")
	if err != nil {
		return err
	}

	n, err := a.svc.Notes.Get(ctx, id)
	if err != nil {
		a.report(ctx, "editnote", err)
		return err
	}
	if n == nil {
		failure(a.out, "Note %s not found.", id)
		return nil
	}

	if err := a.promptNote(n); err != nil {
		return err
	}
	if err := a.svc.Notes.Save(ctx, n); err != nil {
		a.report(ctx, "editnote", err)
		return err
	}
	success(a.out, "Note %s updated.", n.ID)
	return nil
}

// Delete removes a note.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter note id to delete")
	if err != nil {
		return err
	}

	if err := a.svc.Notes.Delete(ctx, id); err != nil {
		a.report(ctx, "delete", err)
		return err
	}
	success(a.out, "Deleted.")
	return nil
}

func (a *App) promptNote(n *models.Note) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category id (empty for none)", a.out)
	if err != nil {
		return err
	}

	n.Title = title
	n.Content = content
	n.CategoryID = category
	return nil
}

func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	id, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if id == "" {
		failure(a.out, "An id is required.")
		return "", errUsage
	}
	return id, nil
}
