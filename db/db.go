package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection *mongo.Collection
	ItemCollection *mongo.Collection
	CartCollection *mongo.Collection
	Client         *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "shophub"
	}

	UserCollection = Client.Database(dbName).Collection("users")
	ItemCollection = Client.Database(dbName).Collection("items")
	CartCollection = Client.Database(dbName).Collection("carts")
}
