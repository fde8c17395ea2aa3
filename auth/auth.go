package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"shophub/access"
	"shophub/db"
	"shophub/globals"
	"shophub/middleware"
	"shophub/models"
	"shophub/rdx"
	"shophub/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// Handler carries the injected access gate; the allow-list is resolved once
// at startup, not per request.
type Handler struct {
	Gate *access.Gate
}

func NewHandler(gate *access.Gate) *Handler {
	return &Handler{Gate: gate}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		http.Error(w, "All fields are required", http.StatusBadRequest)
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// Check if user already exists
	err := db.UserCollection.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		http.Error(w, "User already exists", http.StatusBadRequest)
		return
	} else if err != mongo.ErrNoDocuments {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for %s: %v", email, err)
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		UserID:    "u" + utils.GenerateRandomString(10),
		Name:      input.Name,
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: time.Now(),
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		log.Printf("Signup insert error: %v", err)
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	tokenString, err := issueToken(user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	if err := rdx.RdxHset("tokki", user.UserID, tokenString); err != nil {
		log.Printf("Redis token cache failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"token": tokenString,
		"user":  user.Public(),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var storedUser models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&storedUser)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedUser.Password), []byte(input.Password)); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	tokenString, err := issueToken(storedUser)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": storedUser.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)
	if err != nil {
		log.Printf("Failed to record last login for %s: %v", storedUser.UserID, err)
	}

	if err := rdx.RdxHset("tokki", storedUser.UserID, tokenString); err != nil {
		log.Printf("Redis token cache failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token": tokenString,
		"user":  storedUser.Public(),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := rdx.RdxHdel("tokki", userID); err != nil {
		log.Printf("Error removing token from Redis: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"msg": "Logged out successfully"})
}

// CheckAdmin reports whether the authenticated user holds elevated
// capability. The UI uses this to reveal catalog management controls.
func (h *Handler) CheckAdmin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	email := utils.GetEmailFromRequest(r)
	if email == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"isAdmin": h.Gate.IsElevated(email),
		"email":   email,
	})
}

func issueToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}
