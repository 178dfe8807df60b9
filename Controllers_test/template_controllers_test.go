package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dvircohen/repair-track/controllers"
	"github.com/dvircohen/repair-track/models"
	"github.com/dvircohen/repair-track/utils"
)

func setupTemplateRouter(t *testing.T) *gin.Engine {
	db, err := gorm.Open(sqlite.Open("file:templatectrltest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.Migrator().DropTable(&models.FilterTemplate{})
	if err := db.AutoMigrate(&models.FilterTemplate{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	templateCtrl := controllers.NewTemplateController(db)
	router.POST("/templates", templateCtrl.SaveTemplate)
	router.GET("/templates/:group", templateCtrl.GetTemplatesByGroup)
	router.DELETE("/templates/by-id/:template_id", templateCtrl.DeleteTemplate)
	return router
}

func TestSaveAndListTemplates(t *testing.T) {
	utils.InitLogger()
	router := setupTemplateRouter(t)

	payload := map[string]interface{}{
		"group": "repairs-list",
		"name":  "open radios",
		"params": map[string]string{
			"hatakType": "radio",
			"status":    "Pending",
		},
	}
	payloadBytes, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", "/templates", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req, _ = http.NewRequest("GET", "/templates/repairs-list", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	templates := resp["data"].([]interface{})
	assert.Len(t, templates, 1)
	tpl := templates[0].(map[string]interface{})
	assert.Equal(t, "open radios", tpl["name"])
	params := tpl["params"].(map[string]interface{})
	assert.Equal(t, "radio", params["hatakType"])
}

func TestDeleteTemplateNotFound(t *testing.T) {
	utils.InitLogger()
	router := setupTemplateRouter(t)

	req, _ := http.NewRequest("DELETE", "/templates/by-id/4242", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
