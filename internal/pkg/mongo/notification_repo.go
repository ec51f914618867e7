package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepo interface {
	Create(ctx context.Context, n *Notification) error
	GetPage(ctx context.Context, userID uint64, limit, offset int64) ([]*Notification, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Notification, error)
	MarkAsRead(ctx context.Context, userID uint64, id primitive.ObjectID, at time.Time) error
	ListUnreadIDs(ctx context.Context, userID uint64) ([]string, error)
	MarkAllAsRead(ctx context.Context, userID uint64, at time.Time) error
	Delete(ctx context.Context, userID uint64, id primitive.ObjectID) error
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{
		col: db.Collection("notification"),
	}
}

// Create 插入新通知，回填 ObjectID
func (s *notificationRepoImpl) Create(ctx context.Context, n *Notification) error {
	res, err := s.col.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

// GetPage 分页获取用户的通知列表 (按时间倒序)
func (s *notificationRepoImpl) GetPage(ctx context.Context, userID uint64, limit, offset int64) ([]*Notification, int64, error) {
	filter := bson.M{"receiver_id": userID}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*Notification
	if err = cursor.All(ctx, &list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// GetByID 根据 ID 获取通知
func (s *notificationRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*Notification, error) {
	var n Notification
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkAsRead 标记单条通知为已读
func (s *notificationRepoImpl) MarkAsRead(ctx context.Context, userID uint64, id primitive.ObjectID, at time.Time) error {
	filter := bson.M{"_id": id, "receiver_id": userID}
	update := bson.M{"$set": bson.M{"is_read": true, "read_at": at}}
	result, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListUnreadIDs 列出未读通知 ID，用于推送已读回执
func (s *notificationRepoImpl) ListUnreadIDs(ctx context.Context, userID uint64) ([]string, error) {
	filter := bson.M{"receiver_id": userID, "is_read": false}
	opts := options.Find().SetProjection(bson.M{"_id": 1})

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID.Hex())
	}
	return ids, nil
}

// MarkAllAsRead 一键清除未读
func (s *notificationRepoImpl) MarkAllAsRead(ctx context.Context, userID uint64, at time.Time) error {
	filter := bson.M{"receiver_id": userID, "is_read": false}
	update := bson.M{"$set": bson.M{"is_read": true, "read_at": at}}
	_, err := s.col.UpdateMany(ctx, filter, update)
	return err
}

// Delete 删除单条通知，仅限接收者本人
func (s *notificationRepoImpl) Delete(ctx context.Context, userID uint64, id primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "receiver_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetUnreadCount 获取用户的未读通知总数
func (s *notificationRepoImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	filter := bson.M{"receiver_id": userID, "is_read": false}
	return s.col.CountDocuments(ctx, filter)
}

// DeleteReadBefore 清理指定时间之前的已读通知，由定时任务调用
func (s *notificationRepoImpl) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{"is_read": true, "created_at": bson.M{"$lt": cutoff}}
	result, err := s.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
