package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/coralcreek/resort-api/internal/apperr"
	"github.com/coralcreek/resort-api/internal/models"
)

type MenuService struct {
	menus models.MenuRepo
}

func NewMenuService(menus models.MenuRepo) *MenuService {
	return &MenuService{menus: menus}
}

func (ms *MenuService) CreateMenu(ctx context.Context, menu *models.Menu) (*models.Menu, error) {
	if err := models.Validate.Struct(menu); err != nil {
		return nil, apperr.Wrap(apperr.Validation, "invalid_menu", "menu title is required", err)
	}
	return ms.menus.CreateMenu(ctx, menu)
}

func (ms *MenuService) ListMenus(ctx context.Context) ([]*models.Menu, error) {
	return ms.menus.ListMenus(ctx)
}

// UpdateMenu replaces the title and/or the full item list of one section.
func (ms *MenuService) UpdateMenu(ctx context.Context, id primitive.ObjectID, title string, items []models.Dish) (*models.Menu, error) {
	fields := bson.M{}
	if title != "" {
		fields["title"] = title
	}
	if items != nil {
		fields["items"] = items
	}
	if len(fields) == 0 {
		return nil, apperr.New(apperr.Validation, "no_fields", "nothing to update")
	}
	return ms.menus.UpdateMenu(ctx, id, fields)
}
