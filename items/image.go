package items

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"shophub/db"
	"shophub/ecode"
	"shophub/models"
	"shophub/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var itemUploadPath = "./static/itempic"

// UploadImage attaches an image to an existing item. The original is saved
// alongside a 300px thumbnail and the item's imageUrl is updated to the
// thumbnail path. Elevated only.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if _, ok := h.requireElevated(w, r); !ok {
		return
	}

	itemID := ps.ByName("id")
	if err := db.ItemCollection.FindOne(ctx, bson.M{"itemid": itemID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			ecode.Write(w, ecode.ErrNotFound)
			return
		}
		ecode.Write(w, ecode.Store("lookup item", err))
		return
	}

	// Parse the multipart form data (with a 10MB limit)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	switch header.Header.Get("Content-Type") {
	case "image/jpeg", "image/png", "image/webp":
	default:
		http.Error(w, "Unsupported image type. Only JPG, PNG and WEBP are allowed.", http.StatusUnsupportedMediaType)
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "Failed to decode image", http.StatusBadRequest)
		return
	}

	fileName := itemID + ".jpg"
	originalPath := filepath.Join(itemUploadPath, fileName)
	thumbDir := filepath.Join(itemUploadPath, "thumb")
	thumbnailPath := filepath.Join(thumbDir, fileName)

	if err := utils.EnsureDir(itemUploadPath); err != nil {
		ecode.Write(w, ecode.Store("create upload directory", err))
		return
	}
	if err := utils.EnsureDir(thumbDir); err != nil {
		ecode.Write(w, ecode.Store("create thumbnail directory", err))
		return
	}

	if err := imaging.Save(img, originalPath); err != nil {
		log.Println("Save image error:", err)
		ecode.Write(w, ecode.Store("save image", err))
		return
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		log.Println("Save thumbnail error:", err)
		ecode.Write(w, ecode.Store("save thumbnail", err))
		return
	}

	imageURL := "/itempic/thumb/" + fileName
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Item
	err = db.ItemCollection.FindOneAndUpdate(ctx,
		bson.M{"itemid": itemID},
		bson.M{"$set": bson.M{"imageUrl": imageURL, "updatedAt": time.Now()}},
		opts,
	).Decode(&updated)
	if err != nil {
		ecode.Write(w, ecode.Store("update item image", err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}
