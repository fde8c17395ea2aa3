package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"shophub/db"
	"shophub/ecode"
	"shophub/models"
	"shophub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Get returns the caller's materialized cart, creating an empty one on
// first access.
func Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cartDoc, err := fetchCart(ctx, userID)
	if err != nil {
		log.Println("GetCart error:", err)
		ecode.Write(w, ecode.Store("get cart", err))
		return
	}

	view, err := Materialize(ctx, cartDoc)
	if err != nil {
		log.Println("GetCart materialize error:", err)
		ecode.Write(w, ecode.Store("materialize cart", err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, view)
}

// SetQuantity sets an item's quantity outright. An existing entry is
// replaced, never incremented; a new entry is appended.
func SetQuantity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.ItemID == "" {
		ecode.Write(w, ecode.Validation("itemId", "required"))
		return
	}
	if input.Quantity < 1 {
		ecode.Write(w, ecode.Validation("qty", "must be a positive integer"))
		return
	}

	if err := setItemQuantity(ctx, userID, input.ItemID, input.Quantity); err != nil {
		log.Println("SetQuantity error:", err)
		ecode.Write(w, ecode.Store("set cart quantity", err))
		return
	}

	respondWithCart(ctx, w, userID)
}

// Increment is the catalog quick-add: it bumps the quantity by delta
// (default 1), clamping the result at 1.
func Increment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		ItemID string `json:"itemId"`
		Delta  int    `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.ItemID == "" {
		ecode.Write(w, ecode.Validation("itemId", "required"))
		return
	}
	if input.Delta == 0 {
		input.Delta = 1
	}

	cartDoc, err := fetchCart(ctx, userID)
	if err != nil {
		ecode.Write(w, ecode.Store("get cart", err))
		return
	}

	found := false
	for i := range cartDoc.Items {
		if cartDoc.Items[i].ItemID == input.ItemID {
			cartDoc.Items[i].Quantity += input.Delta
			if cartDoc.Items[i].Quantity < 1 {
				cartDoc.Items[i].Quantity = 1
			}
			found = true
			break
		}
	}
	if !found {
		qty := input.Delta
		if qty < 1 {
			qty = 1
		}
		cartDoc.Items = append(cartDoc.Items, models.CartItem{ItemID: input.ItemID, Quantity: qty})
	}

	if err := storeCart(ctx, cartDoc); err != nil {
		log.Println("Increment store error:", err)
		ecode.Write(w, ecode.Store("update cart", err))
		return
	}

	respondWithCart(ctx, w, userID)
}

// Remove deletes an item's entry entirely. Removing an absent item is a
// no-op, not an error.
func Remove(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		ItemID string `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if input.ItemID == "" {
		ecode.Write(w, ecode.Validation("itemId", "required"))
		return
	}

	_, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"itemId": input.ItemID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		log.Println("Remove cart item error:", err)
		ecode.Write(w, ecode.Store("remove cart item", err))
		return
	}

	respondWithCart(ctx, w, userID)
}

// Merge folds an anonymous client-held cart into the server cart at the
// authentication transition. Each entry is applied independently with
// replace semantics; a failed entry does not roll back the others.
func Merge(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Items map[string]int `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	var failed []string
	for itemID, qty := range input.Items {
		if itemID == "" || qty < 1 {
			failed = append(failed, itemID)
			continue
		}
		if err := setItemQuantity(ctx, userID, itemID, qty); err != nil {
			log.Printf("Merge: failed to set %s: %v", itemID, err)
			failed = append(failed, itemID)
		}
	}

	cartDoc, err := fetchCart(ctx, userID)
	if err != nil {
		ecode.Write(w, ecode.Store("get cart", err))
		return
	}
	view, err := Materialize(ctx, cartDoc)
	if err != nil {
		ecode.Write(w, ecode.Store("materialize cart", err))
		return
	}

	resp := utils.M{"cart": view}
	if len(failed) > 0 {
		resp["failed"] = failed
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// fetchCart loads the user's cart, creating an empty one if none exists.
func fetchCart(ctx context.Context, userID string) (models.Cart, error) {
	var cartDoc models.Cart
	err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&cartDoc)
	if err == mongo.ErrNoDocuments {
		cartDoc = models.Cart{UserID: userID, Items: []models.CartItem{}, UpdatedAt: time.Now()}
		if _, err := db.CartCollection.InsertOne(ctx, cartDoc); err != nil {
			return cartDoc, err
		}
		return cartDoc, nil
	}
	if err != nil {
		return cartDoc, err
	}
	if cartDoc.Items == nil {
		cartDoc.Items = []models.CartItem{}
	}
	return cartDoc, nil
}

// setItemQuantity applies replace semantics for one entry: an existing
// entry's quantity is overwritten, otherwise a new entry is appended. The
// cart document is written as a whole; the store's single-document
// atomicity gives last-write-wins.
func setItemQuantity(ctx context.Context, userID, itemID string, qty int) error {
	cartDoc, err := fetchCart(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range cartDoc.Items {
		if cartDoc.Items[i].ItemID == itemID {
			cartDoc.Items[i].Quantity = qty
			found = true
			break
		}
	}
	if !found {
		cartDoc.Items = append(cartDoc.Items, models.CartItem{ItemID: itemID, Quantity: qty})
	}

	return storeCart(ctx, cartDoc)
}

func storeCart(ctx context.Context, cartDoc models.Cart) error {
	cartDoc.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := db.CartCollection.ReplaceOne(ctx, bson.M{"userId": cartDoc.UserID}, cartDoc, opts)
	return err
}

// Materialize resolves every cart entry against the current catalog. An
// entry whose item no longer exists stays in the view, flagged unavailable.
func Materialize(ctx context.Context, cartDoc models.Cart) (models.CartView, error) {
	view := models.CartView{UserID: cartDoc.UserID, Lines: []models.CartLine{}}

	if len(cartDoc.Items) > 0 {
		ids := make([]string, 0, len(cartDoc.Items))
		for _, ci := range cartDoc.Items {
			ids = append(ids, ci.ItemID)
		}

		cursor, err := db.ItemCollection.Find(ctx, bson.M{"itemid": bson.M{"$in": ids}})
		if err != nil {
			return view, err
		}
		defer cursor.Close(ctx)

		var catalog []models.Item
		if err := cursor.All(ctx, &catalog); err != nil {
			return view, err
		}

		byID := make(map[string]models.Item, len(catalog))
		for _, it := range catalog {
			byID[it.ItemID] = it
		}

		for _, ci := range cartDoc.Items {
			line := models.CartLine{ItemID: ci.ItemID, Quantity: ci.Quantity}
			if it, ok := byID[ci.ItemID]; ok {
				line.Title = it.Title
				line.Price = it.Price
				line.ImageURL = it.ImageURL
				line.Stock = it.Stock
			} else {
				line.Unavailable = true
			}
			view.Lines = append(view.Lines, line)
		}
	}

	view.Subtotal, view.Shipping, view.Total = Totals(view.Lines)
	return view, nil
}

func respondWithCart(ctx context.Context, w http.ResponseWriter, userID string) {
	cartDoc, err := fetchCart(ctx, userID)
	if err != nil {
		ecode.Write(w, ecode.Store("get cart", err))
		return
	}
	view, err := Materialize(ctx, cartDoc)
	if err != nil {
		ecode.Write(w, ecode.Store("materialize cart", err))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}
