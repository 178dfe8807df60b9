package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dvircohen/repair-track/models"
	"github.com/dvircohen/repair-track/services"
	"github.com/dvircohen/repair-track/utils"
)

type TemplateController struct {
	Store *services.TemplateStore
}

func NewTemplateController(db *gorm.DB) *TemplateController {
	return &TemplateController{Store: services.NewTemplateStore(db)}
}

// SaveTemplate stores a named set of filter parameters under a group.
func (tc *TemplateController) SaveTemplate(c *gin.Context) {
	type reqBody struct {
		Group  string            `json:"group" binding:"required"`
		Name   string            `json:"name" binding:"required"`
		Params map[string]string `json:"params" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	template := models.FilterTemplate{
		TemplateGroup: body.Group,
		Name:          body.Name,
		Params:        body.Params,
	}
	if err := tc.Store.Save(&template); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Template saved", template)
}

// GetTemplatesByGroup lists the templates of one group.
func (tc *TemplateController) GetTemplatesByGroup(c *gin.Context) {
	group := c.Param("group")

	templates, err := tc.Store.ListGroup(group)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Templates for group", templates)
}

// DeleteTemplate removes a saved template.
func (tc *TemplateController) DeleteTemplate(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("template_id"))

	if err := tc.Store.Delete(uint(id)); err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Template deleted", gin.H{"template_id": id})
}
