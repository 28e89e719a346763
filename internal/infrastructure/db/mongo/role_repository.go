package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/facturapp/billing-system/internal/core/domain"
)

const roleCollection = "users_rol"

// MongoRoleRepository stores each role together with its permission matrix
// in a single document, so GetPrivileges is one read and SavePrivileges is
// one replace — the matrix is never merged.
type MongoRoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{coll: db.Collection(roleCollection)}
}

type mongoRole struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Privileges map[string]bool    `bson:"privileges"`
}

func (r *MongoRoleRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	if existing := r.coll.FindOne(ctx, bson.M{"name": role.Name}); existing.Err() == nil {
		return nil, domain.ErrRoleExists
	}

	doc := mongoRole{Name: role.Name, Privileges: map[string]bool{}}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}

	created := &domain.Role{Name: role.Name}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return created, nil
}

func (r *MongoRoleRepository) FindByID(ctx context.Context, id string) (*domain.Role, error) {
	mr, err := r.findDoc(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.Role{ID: mr.ID.Hex(), Name: mr.Name}, nil
}

func (r *MongoRoleRepository) List(ctx context.Context) ([]domain.Role, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cursor.Close(ctx)

	var roles []domain.Role
	for cursor.Next(ctx) {
		var mr mongoRole
		if err := cursor.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		roles = append(roles, domain.Role{ID: mr.ID.Hex(), Name: mr.Name})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return roles, nil
}

func (r *MongoRoleRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRoleNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *MongoRoleRepository) GetPrivileges(ctx context.Context, roleID string) (*domain.PrivilegeSet, error) {
	mr, err := r.findDoc(ctx, roleID)
	if err != nil {
		return nil, err
	}

	grants := make(map[string]bool, len(mr.Privileges))
	for name, granted := range mr.Privileges {
		if granted && domain.IsPermission(name) {
			grants[name] = true
		}
	}
	return &domain.PrivilegeSet{RoleID: mr.ID.Hex(), RoleName: mr.Name, Grants: grants}, nil
}

func (r *MongoRoleRepository) SavePrivileges(ctx context.Context, set *domain.PrivilegeSet) error {
	oid, err := primitive.ObjectIDFromHex(set.RoleID)
	if err != nil {
		return domain.ErrRoleNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"privileges": set.Grants}},
	)
	if err != nil {
		return fmt.Errorf("save privileges: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *MongoRoleRepository) findDoc(ctx context.Context, id string) (*mongoRole, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRoleNotFound
	}

	var mr mongoRole
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &mr, nil
}
