package mongo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	SaveMessage(ctx context.Context, msg *Message) error
	GetByID(ctx context.Context, msgID string) (*Message, error)
	GetHistory(ctx context.Context, chatID uint64, lastSeq uint64, pageSize int) ([]*Message, error)
	GetPage(ctx context.Context, chatID uint64, limit, offset int64) ([]*Message, int64, error)
	AdvanceStatus(ctx context.Context, msgID string, target int8) error
	MarkFailed(ctx context.Context, msgID string) error
	SoftDelete(ctx context.Context, msgID string, at time.Time) error
	SearchByContent(ctx context.Context, chatIDs []uint64, keyword string, limit, offset int64) ([]*Message, int64, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{
		col: db.Collection("message"),
	}
}

// SaveMessage 将消息存入 MongoDB，并回填生成的 ObjectID
func (s *messageRepoImpl) SaveMessage(ctx context.Context, msg *Message) error {
	res, err := s.col.InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// GetByID 按消息 ID 精确查询
func (s *messageRepoImpl) GetByID(ctx context.Context, msgID string) (*Message, error) {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var msg Message
	if err := s.col.FindOne(ctx, bson.M{"_id": objectID}).Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetHistory 游标式历史消息查询
// lastSeq 为当前页面最旧一条消息的序号。如果是第一页，传 0。
func (s *messageRepoImpl) GetHistory(ctx context.Context, chatID uint64, lastSeq uint64, pageSize int) ([]*Message, error) {
	filter := bson.M{"chat_id": chatID}
	if lastSeq > 0 {
		filter["seq"] = bson.M{"$lt": lastSeq}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "seq", Value: -1}}).
		SetLimit(int64(pageSize))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// GetPage 按创建序号倒序分页，返回总数用于组装分页元数据
func (s *messageRepoImpl) GetPage(ctx context.Context, chatID uint64, limit, offset int64) ([]*Message, int64, error) {
	filter := bson.M{"chat_id": chatID}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "seq", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// AdvanceStatus 单调推进消息状态
// 过滤条件同时限定当前状态低于目标且未失败，乱序/回退的回执匹配不到任何文档，静默幂等。
func (s *messageRepoImpl) AdvanceStatus(ctx context.Context, msgID string, target int8) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	filter := bson.M{
		"_id":    objectID,
		"status": bson.M{"$lt": target, "$ne": MsgStatusFailed},
	}
	update := bson.M{"$set": bson.M{"status": target}}
	_, err = s.col.UpdateOne(ctx, filter, update)
	return err
}

// MarkFailed 投递失败，仅允许从 SENT 进入终态
func (s *messageRepoImpl) MarkFailed(ctx context.Context, msgID string) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	filter := bson.M{"_id": objectID, "status": MsgStatusSent}
	update := bson.M{"$set": bson.M{"status": MsgStatusFailed}}
	_, err = s.col.UpdateOne(ctx, filter, update)
	return err
}

// SoftDelete 软删除，文档保留用于历史与转发溯源
func (s *messageRepoImpl) SoftDelete(ctx context.Context, msgID string, at time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	filter := bson.M{"_id": objectID, "deleted_at": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"deleted_at": at}}
	_, err = s.col.UpdateOne(ctx, filter, update)
	return err
}

// SearchByContent 在给定会话范围内做大小写不敏感的子串匹配
func (s *messageRepoImpl) SearchByContent(ctx context.Context, chatIDs []uint64, keyword string, limit, offset int64) ([]*Message, int64, error) {
	if len(chatIDs) == 0 {
		return []*Message{}, 0, nil
	}

	filter := bson.M{
		"chat_id": bson.M{"$in": chatIDs},
		"content": bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"},
	}

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

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}
