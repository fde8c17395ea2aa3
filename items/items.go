package items

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"shophub/access"
	"shophub/db"
	"shophub/ecode"
	"shophub/models"
	"shophub/mq"
	"shophub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Handler serves the catalog endpoints. The access gate is injected once at
// route registration.
type Handler struct {
	Gate *access.Gate
}

func NewHandler(gate *access.Gate) *Handler {
	return &Handler{Gate: gate}
}

// List returns a filtered, sorted page of catalog items together with the
// pagination envelope. An out-of-range page yields an empty page with
// accurate totals.
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filters, err := ParseItemFilters(r.URL.Query())
	if err != nil {
		ecode.Write(w, err)
		return
	}

	query := filters.Query()

	cursor, err := db.ItemCollection.Find(ctx, query, filters.FindOptions())
	if err != nil {
		log.Println("List items Find error:", err)
		ecode.Write(w, ecode.Store("list items", err))
		return
	}
	defer cursor.Close(ctx)

	var results []models.Item
	if err := cursor.All(ctx, &results); err != nil {
		log.Println("List items cursor error:", err)
		ecode.Write(w, ecode.Store("decode items", err))
		return
	}
	if len(results) == 0 {
		results = []models.Item{}
	}

	total, err := db.ItemCollection.CountDocuments(ctx, query)
	if err != nil {
		log.Println("List items count error:", err)
		ecode.Write(w, ecode.Store("count items", err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"items": results,
		"pagination": models.Pagination{
			Page:  filters.Page,
			Limit: filters.Limit,
			Total: total,
			Pages: filters.Pages(total),
		},
	})
}

// FilterOptions returns the distinct categories and brands currently in the
// catalog, recomputed on every call.
func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	categories, err := distinctStrings(ctx, "category")
	if err != nil {
		ecode.Write(w, ecode.Store("distinct categories", err))
		return
	}
	brands, err := distinctStrings(ctx, "brand")
	if err != nil {
		ecode.Write(w, ecode.Store("distinct brands", err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, models.FilterOptions{
		Categories: categories,
		Brands:     brands,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var item models.Item
	err := db.ItemCollection.FindOne(ctx, bson.M{"itemid": ps.ByName("id")}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		ecode.Write(w, ecode.ErrNotFound)
		return
	}
	if err != nil {
		ecode.Write(w, ecode.Store("get item", err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, item)
}

// Create adds a catalog item. Elevated capability is checked before any
// store mutation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := h.requireElevated(w, r)
	if !ok {
		return
	}

	var payload models.ItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validatePayload(&payload); err != nil {
		ecode.Write(w, err)
		return
	}

	now := time.Now()
	item := models.Item{
		ItemID:      utils.GetUUID(),
		Title:       payload.Title,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		Brand:       payload.Brand,
		ImageURL:    payload.ImageURL,
		Rating:      payload.Rating,
		Stock:       payload.Stock,
		Tags:        payload.Tags,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}

	if _, err := db.ItemCollection.InsertOne(ctx, item); err != nil {
		log.Println("Create item InsertOne error:", err)
		ecode.Write(w, ecode.Store("create item", err))
		return
	}

	mq.Emit(ctx, "item-created", mq.Index{EntityType: "item", Method: "POST", EntityId: item.ItemID})

	utils.RespondWithJSON(w, http.StatusCreated, item)
}

// Update replaces the client-editable fields of an item. Elevated only.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, ok := h.requireElevated(w, r); !ok {
		return
	}

	var payload models.ItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := validatePayload(&payload); err != nil {
		ecode.Write(w, err)
		return
	}
	if payload.Tags == nil {
		payload.Tags = []string{}
	}

	update := bson.M{"$set": bson.M{
		"title":       payload.Title,
		"description": payload.Description,
		"price":       payload.Price,
		"category":    payload.Category,
		"brand":       payload.Brand,
		"imageUrl":    payload.ImageURL,
		"rating":      payload.Rating,
		"stock":       payload.Stock,
		"tags":        payload.Tags,
		"updatedAt":   time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Item
	err := db.ItemCollection.FindOneAndUpdate(ctx, bson.M{"itemid": ps.ByName("id")}, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		ecode.Write(w, ecode.ErrNotFound)
		return
	}
	if err != nil {
		log.Println("Update item error:", err)
		ecode.Write(w, ecode.Store("update item", err))
		return
	}

	mq.Emit(ctx, "item-updated", mq.Index{EntityType: "item", Method: "PUT", EntityId: updated.ItemID})

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// Delete removes an item from the catalog. Elevated only. Cart entries that
// still reference the item surface as unavailable lines on their next read.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, ok := h.requireElevated(w, r); !ok {
		return
	}

	id := ps.ByName("id")
	res, err := db.ItemCollection.DeleteOne(ctx, bson.M{"itemid": id})
	if err != nil {
		log.Println("Delete item error:", err)
		ecode.Write(w, ecode.Store("delete item", err))
		return
	}
	if res.DeletedCount == 0 {
		ecode.Write(w, ecode.ErrNotFound)
		return
	}

	mq.Emit(ctx, "item-deleted", mq.Index{EntityType: "item", Method: "DELETE", EntityId: id})

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"msg": "Item deleted successfully"})
}

// requireElevated resolves the caller and enforces the admin allow-list.
// Returns the caller's user id when the check passes.
func (h *Handler) requireElevated(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := utils.GetUserIDFromRequest(r)
	email := utils.GetEmailFromRequest(r)
	if userID == "" || email == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	if !h.Gate.IsElevated(email) {
		http.Error(w, "Access denied. Admin privileges required.", http.StatusForbidden)
		return "", false
	}
	return userID, true
}

func validatePayload(p *models.ItemPayload) error {
	if p.Title == "" {
		return ecode.Validation("title", "required")
	}
	if p.Description == "" {
		return ecode.Validation("description", "required")
	}
	if p.Category == "" {
		return ecode.Validation("category", "required")
	}
	if p.Price < 0 {
		return ecode.Validation("price", "must be non-negative")
	}
	if p.Rating < 0 || p.Rating > 5 {
		return ecode.Validation("rating", "must be between 0 and 5")
	}
	if p.Stock < 0 {
		return ecode.Validation("stock", "must be non-negative")
	}
	return nil
}

func distinctStrings(ctx context.Context, field string) ([]string, error) {
	raw, err := db.ItemCollection.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return values, nil
}
