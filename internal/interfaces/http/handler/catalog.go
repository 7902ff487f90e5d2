package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/canteen/backend/internal/application/catalog"
	appordering "github.com/canteen/backend/internal/application/ordering"
	"github.com/canteen/backend/internal/domain/catalog"
	"github.com/canteen/backend/internal/interfaces/http/dto"
)

// CategoryHandler manages menu categories.
type CategoryHandler struct {
	service *appcatalog.CategoryService
}

func NewCategoryHandler(service *appcatalog.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	var req appcatalog.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	category, err := h.service.CreateCategory(c.Request.Context(), tid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, category)
}

// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	category, err := h.service.GetCategory(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, category)
}

// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	categories, err := h.service.ListCategories(c.Request.Context(), tid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, categories)
}

// PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	category, err := h.service.UpdateCategory(c.Request.Context(), tid, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, category)
}

// POST /api/v1/categories/:id/activate
func (h *CategoryHandler) Activate(c *gin.Context) {
	h.transition(c, h.service.ActivateCategory)
}

// POST /api/v1/categories/:id/deactivate
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.service.DeactivateCategory)
}

// DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	h.transition(c, h.service.DeleteCategory)
}

func (h *CategoryHandler) transition(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) error) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), tid, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": true})
}

// ProductHandler manages products.
type ProductHandler struct {
	service  *appcatalog.ProductService
	importer *appcatalog.ProductImportService
}

func NewProductHandler(service *appcatalog.ProductService, importer *appcatalog.ProductImportService) *ProductHandler {
	return &ProductHandler{service: service, importer: importer}
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	var req appcatalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	product, err := h.service.CreateProduct(c.Request.Context(), tid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, product)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	product, err := h.service.GetProduct(c.Request.Context(), tid, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		respondBindingError(c, err)
		return
	}
	list.Normalize()

	filter := catalog.ProductFilter{
		Keyword:        list.Search,
		VegetarianOnly: c.Query("vegetarian") == "true",
		Page:           list.Page,
		PageSize:       list.PageSize,
	}
	if status := c.Query("status"); status != "" {
		s := catalog.ProductStatus(status)
		filter.Status = &s
	}
	if categoryParam := c.Query("category_id"); categoryParam != "" {
		categoryID, err := uuid.Parse(categoryParam)
		if err != nil {
			respondBindingError(c, err)
			return
		}
		filter.CategoryID = &categoryID
	}

	products, total, err := h.service.ListProducts(c.Request.Context(), tid, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, products, total, list.Page, list.PageSize)
}

// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req appcatalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	product, err := h.service.UpdateProduct(c.Request.Context(), tid, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

// POST /api/v1/products/import
// Accepts a multipart upload with a "file" part and an optional "mode"
// field: skip (default), update, or fail.
func (h *ProductHandler) Import(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondBindingError(c, err)
		return
	}
	src, err := file.Open()
	if err != nil {
		respondBindingError(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondError(c, err)
		return
	}

	mode := appcatalog.ImportMode(c.DefaultPostForm("mode", string(appcatalog.ImportModeSkip)))
	result, err := h.importer.ImportCSV(c.Request.Context(), tid, data, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// POST /api/v1/products/:id/activate
func (h *ProductHandler) Activate(c *gin.Context) {
	h.transition(c, h.service.ActivateProduct)
}

// POST /api/v1/products/:id/deactivate
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.service.DeactivateProduct)
}

// POST /api/v1/products/:id/discontinue
func (h *ProductHandler) Discontinue(c *gin.Context) {
	h.transition(c, h.service.DiscontinueProduct)
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	h.transition(c, h.service.DeleteProduct)
}

func (h *ProductHandler) transition(c *gin.Context, op func(context.Context, uuid.UUID, uuid.UUID) error) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := op(c.Request.Context(), tid, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": true})
}

// MenuHandler serves the cached customer menu.
type MenuHandler struct {
	menus  *appcatalog.MenuService
	tables *appordering.TableService
}

func NewMenuHandler(menus *appcatalog.MenuService, tables *appordering.TableService) *MenuHandler {
	return &MenuHandler{menus: menus, tables: tables}
}

// GET /api/v1/menu
// Staff view of the caller's own menu.
func (h *MenuHandler) GetMenu(c *gin.Context) {
	tid, ok := theaterID(c)
	if !ok {
		return
	}
	menu, err := h.menus.GetMenu(c.Request.Context(), tid)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, menu)
}

// GetPublicMenu godoc
// @ID           getPublicMenu
//
//	@Summary		Get the menu for a scanned table
//	@Description	Resolve a table's QR token and return the theater's published menu
//	@Tags			public
//	@Produce		json
//	@Param			token	path		string	true	"Table QR token"
//	@Success		200		{object}	dto.Response
//	@Failure		404		{object}	dto.Response
//	@Router			/public/menu/{token} [get]
func (h *MenuHandler) GetPublicMenu(c *gin.Context) {
	table, err := h.tables.ResolveQRToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	menu, err := h.menus.GetMenu(c.Request.Context(), table.TheaterID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"table": gin.H{"number": table.Number, "zone": table.Zone},
		"menu":  menu,
	})
}
