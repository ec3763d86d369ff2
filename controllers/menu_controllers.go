package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/freshpress/juicebar-app/repository"
	"github.com/freshpress/juicebar-app/utils"
)

type MenuController struct {
	Catalog *repository.CatalogRepository
}

func NewMenuController(catalog *repository.CatalogRepository) *MenuController {
	return &MenuController{Catalog: catalog}
}

// GetMenuItems -> available menu items
func (mc *MenuController) GetMenuItems(c *gin.Context) {
	items, err := mc.Catalog.GetAllMenuItems()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu items", items)
}

// GetSizes -> all serving sizes
func (mc *MenuController) GetSizes(c *gin.Context) {
	sizes, err := mc.Catalog.GetAllSizes()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sizes", sizes)
}

// GetAddOns -> available add-ons
func (mc *MenuController) GetAddOns(c *gin.Context) {
	addOns, err := mc.Catalog.GetAllAddOns()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Add-ons", addOns)
}
