package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dvircohen/repair-track/events"
	"github.com/dvircohen/repair-track/models"
	"github.com/dvircohen/repair-track/services"
	"github.com/dvircohen/repair-track/utils"
)

type RepairController struct {
	Service *services.RepairService
}

func NewRepairController(db *gorm.DB) *RepairController {
	return &RepairController{Service: services.NewRepairService(db)}
}

// CreateRepair inserts a new repair record. The body is a flat map of wire
// fields; unknown keys are ignored.
func (rc *RepairController) CreateRepair(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(body) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("request body is empty"))
		return
	}

	var repair models.Repair
	for field, value := range body {
		repair.ApplyUpdate(field, value)
	}
	if repair.CreatedBy == (models.Actor{}) {
		repair.CreatedBy = contextActor(c)
	}

	if err := rc.Service.Create(&repair); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastRepairCreate(repair)
	utils.RespondJSON(c, http.StatusCreated, "Repair created", repair)
}

// GetAllRepairs lists repairs filtered by the raw query parameters,
// newest first. The response is a bare JSON array, no envelope.
func (rc *RepairController) GetAllRepairs(c *gin.Context) {
	repairs, err := rc.Service.List(c.Request.URL.Query())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, repairs)
}

// GetRepairByID returns one repair.
func (rc *RepairController) GetRepairByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("repair_id"))

	repair, err := rc.Service.Get(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRepairNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Repair detail", repair)
}

// UpdateRepair applies a partial update and records the field-level diff in
// the history trail. A no-op update succeeds without writing history.
func (rc *RepairController) UpdateRepair(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("repair_id"))

	var body struct {
		Updates map[string]any `json:"updates"`
		Actor   string         `json:"actor"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	actor := body.Actor
	if actor == "" {
		actor = contextActor(c).Name
	}

	repair, changes, err := rc.Service.Update(uint(id), body.Updates, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyUpdate):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, services.ErrRepairNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	events.BroadcastRepairUpdate(repair)
	if len(changes) > 0 {
		events.BroadcastHistoryAppend(repair.ID, changes)
	}

	utils.RespondJSON(c, http.StatusOK, "Repair updated", repair)
}

// DeleteRepair flags a repair as pending removal. The flip goes through the
// normal update path, so it shows up in history like any edit.
func (rc *RepairController) DeleteRepair(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("repair_id"))

	repair, err := rc.Service.SoftDelete(uint(id), contextActor(c).Name)
	if err != nil {
		if errors.Is(err, services.ErrRepairNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastRepairDelete(repair)
	utils.RespondJSON(c, http.StatusOK, "Repair deleted", gin.H{"repair_id": repair.ID})
}

// GetRepairHistory returns the audit trail newest first, or 404 when the
// repair is unknown or has no history yet.
func (rc *RepairController) GetRepairHistory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("repair_id"))

	entries, err := rc.Service.ListHistory(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRepairNotFound) || errors.Is(err, services.ErrHistoryNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// contextActor builds the acting user from the JWT claims set by the auth
// middleware.
func contextActor(c *gin.Context) models.Actor {
	actor := models.Actor{}
	if id, ok := c.Get("userID"); ok {
		if uid, ok := id.(uint); ok {
			actor.ID = uid
		}
	}
	actor.Name = c.GetString("userName")
	return actor
}
