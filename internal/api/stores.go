package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeplane/storeplane/internal/store"
)

type createStoreRequest struct {
	Name   string `json:"name"`
	Engine string `json:"engine"`
}

func (r *Router) listStores(c *gin.Context) {
	respondData(c, http.StatusOK, r.stores.ListStores())
}

func (r *Router) getStore(c *gin.Context) {
	st, err := r.stores.GetStore(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, CodeNotFound, "Store not found")
		return
	}
	respondData(c, http.StatusOK, st)
}

func (r *Router) createStore(c *gin.Context) {
	var req createStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body")
		return
	}

	if req.Name == "" || req.Engine == "" {
		respondError(c, http.StatusBadRequest, CodeValidationError, "Name and engine are required")
		return
	}

	engine, err := store.ParseEngine(req.Engine)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid engine. Must be woocommerce or medusa")
		return
	}

	r.logger.Info("creating store",
		zap.String("name", req.Name), zap.String("engine", req.Engine))

	respondData(c, http.StatusCreated, r.stores.CreateStore(req.Name, engine))
}

func (r *Router) deleteStore(c *gin.Context) {
	id := c.Param("id")
	r.logger.Info("deleting store", zap.String("store_id", id))

	if err := r.stores.DeleteStore(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Store not found")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, err.Error())
		return
	}

	respondMessage(c, http.StatusOK, "Store deletion initiated")
}

func (r *Router) getStoreEvents(c *gin.Context) {
	respondData(c, http.StatusOK, r.stores.GetStoreEvents(c.Param("id")))
}
