package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/securenotes/internal/models"
	"github.com/google/uuid"
)

// Categories prints all categories by name.
func (a *App) Categories(ctx context.Context) error {
	list, err := a.svc.Categories.List(ctx)
	if err != nil {
		a.report(ctx, "categories", err)
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No categories.")
		return nil
	}
	for _, c := range list {
		fmt.Fprintf(a.out, "%s  %s  %s\n", c.ID, c.Name, c.Color)
	}
	return nil
}

// AddCategory prompts for a name and color and saves a new category.
func (a *App) AddCategory(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	color, err := getSimpleText(a.reader, "Color (e.g. #3366ff)", a.out)
	if err != nil {
		return err
	}

	c := &models.Category{ID: uuid.NewString(), Name: name, Color: color}
	if err := a.svc.Categories.Save(ctx, c); err != nil {
		a.report(ctx, "addcategory", err)
		return err
	}
	success(a.out, "Category %s saved.", c.ID)
	return nil
}

// DeleteCategory removes a category. Its notes keep their category id.
func (a *App) DeleteCategory(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, "Enter category id to delete")
	if err != nil {
		return err
	}

	if err := a.svc.Categories.Delete(ctx, id); err != nil {
		a.report(ctx, "delcategory", err)
		return err
	}
	success(a.out, "Deleted.")
	return nil
}
