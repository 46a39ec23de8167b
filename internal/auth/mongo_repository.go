package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepo хранит пользователей в MongoDB (коллекция users)
type MongoUserRepo struct {
	client *mongo.Client
	users  *mongo.Collection
}

// NewMongoUserRepo подключается к MongoDB и создаёт индекс уникальности имени
func NewMongoUserRepo(ctx context.Context, uri, database string) (*MongoUserRepo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	users := client.Database(database).Collection("users")
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := users.Indexes().CreateOne(connectCtx, indexModel); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create username index: %w", err)
	}

	return &MongoUserRepo{client: client, users: users}, nil
}

// Create добавляет пользователя; имя должно быть уникально
func (r *MongoUserRepo) Create(ctx context.Context, user *User) error {
	_, err := r.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// ByUsername возвращает пользователя по имени
func (r *MongoUserRepo) ByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// ByID возвращает пользователя по идентификатору
func (r *MongoUserRepo) ByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// List возвращает всех пользователей
func (r *MongoUserRepo) List(ctx context.Context) ([]*User, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*User
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return result, nil
}

// Delete удаляет пользователя
func (r *MongoUserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Close отключается от MongoDB
func (r *MongoUserRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
