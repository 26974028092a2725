package controllers

import (
	"errors"
	"net/http"

	"github.com/blavejr/plantcareAI/logging"
	"github.com/blavejr/plantcareAI/models"
	"github.com/blavejr/plantcareAI/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CatalogController struct {
	catalog *services.Catalog
	logger  *zap.Logger
}

func NewCatalogController(catalog *services.Catalog, logger *zap.Logger) *CatalogController {
	return &CatalogController{
		catalog: catalog,
		logger:  logger.Named("catalog_controller"),
	}
}

func (cc *CatalogController) ListCountries(c *gin.Context) {
	names, err := cc.catalog.Countries(c.Request.Context())
	if err != nil {
		logging.FromContext(c, cc.logger).Error("failed to list countries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load countries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"countries": names})
}

// GetCountry serves one country's record, falling back to the default
// country when the name is unknown.
func (cc *CatalogController) GetCountry(c *gin.Context) {
	name := c.Param("name")

	record, fallback, err := cc.catalog.Country(c.Request.Context(), name)
	if errors.Is(err, services.ErrCountryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Country not found"})
		return
	}
	if err != nil {
		logging.FromContext(c, cc.logger).Error("failed to load country", zap.String("country", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load country"})
		return
	}

	c.JSON(http.StatusOK, models.CountryResponse{
		Country:  record.Country,
		Fallback: fallback,
		Record:   record,
	})
}

func (cc *CatalogController) SearchPlants(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	results, err := cc.catalog.SearchPlants(c.Request.Context(), query)
	if err != nil {
		logging.FromContext(c, cc.logger).Error("plant search failed", zap.String("query", query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search plants"})
		return
	}

	c.JSON(http.StatusOK, models.PlantSearchResponse{Query: query, Results: results})
}
