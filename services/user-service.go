package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"task-manager/backend/logging"
	"task-manager/backend/models"
	"task-manager/backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserService struct {
	UserCollection *mongo.Collection
	BlackList      map[string]bool
}

func NewUserService(userCollection *mongo.Collection, blackList map[string]bool) *UserService {
	if blackList == nil {
		blackList = make(map[string]bool)
	}
	return &UserService{
		UserCollection: userCollection,
		BlackList:      blackList,
	}
}

// Register creates a regular user account. The role is always "user";
// admins are created by other admins or by seeding.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	if err := utils.ValidatePassword(password); err != nil {
		return nil, NewValidationError("password", err.Error())
	}
	if s.BlackList[strings.ToLower(password)] {
		return nil, NewValidationError("password", "password is too common")
	}

	var existing models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existing); err == nil {
		return nil, NewValidationError("email", "user with this email already exists")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}

	if _, err := s.UserCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, NewValidationError("email", "user with this email already exists")
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: Registered user %s", user.Email)
	return user, nil
}

// Authenticate verifies credentials. Unknown email and wrong password both
// yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.UserCollection.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.UserCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

// ListUsers returns every account, newest first. Admin-only at the handler.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.UserCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// AssignableUsers is the set the requester may assign tasks to: everyone
// for admins, only themselves otherwise.
func (s *UserService) AssignableUsers(ctx context.Context, req Requester) ([]models.User, error) {
	if req.IsAdmin() {
		return s.ListUsers(ctx)
	}
	user, err := s.GetUserByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return []models.User{*user}, nil
}

// CreateUser is the admin path: unlike Register it may set the role.
func (s *UserService) CreateUser(ctx context.Context, req Requester, name, email, password, role string) (*models.User, error) {
	if !req.IsAdmin() {
		return nil, ErrAccessDenied
	}
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, NewValidationError("role", "role must be admin or user")
	}

	user, err := s.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	if role != user.Role {
		_, err = s.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"role": role}})
		if err != nil {
			return nil, fmt.Errorf("failed to set role: %w", err)
		}
		user.Role = role
	}
	return user, nil
}

// UserUpdate is the set of mutable account fields. Nil means unchanged.
type UserUpdate struct {
	Name  *string
	Email *string
	Role  *string
}

// UpdateUser lets admins edit any account, and users edit their own name
// and email. A role change supplied by a non-admin is dropped, not refused,
// consistent with how task assignment edits are handled.
func (s *UserService) UpdateUser(ctx context.Context, req Requester, id primitive.ObjectID, update UserUpdate) (*models.User, error) {
	if !req.IsAdmin() && req.ID != id {
		return nil, ErrAccessDenied
	}

	if _, err := s.GetUserByID(ctx, id); err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, NewValidationError("name", "name cannot be empty")
		}
		set["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		email := NormalizeEmail(*update.Email)
		if !ValidEmail(email) {
			return nil, NewValidationError("email", "please enter a valid email")
		}
		var other models.User
		err := s.UserCollection.FindOne(ctx, bson.M{"email": email, "_id": bson.M{"$ne": id}}).Decode(&other)
		if err == nil {
			return nil, NewValidationError("email", "user with this email already exists")
		}
		set["email"] = email
	}
	if update.Role != nil && req.IsAdmin() {
		if !models.ValidRole(*update.Role) {
			return nil, NewValidationError("role", "role must be admin or user")
		}
		set["role"] = *update.Role
	}

	if len(set) > 0 {
		if _, err := s.UserCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return s.GetUserByID(ctx, id)
}

// DeleteUser removes an account. Admin only; self-deletion is refused so an
// admin cannot lock the system out of its last admin.
func (s *UserService) DeleteUser(ctx context.Context, req Requester, id primitive.ObjectID) error {
	if !req.IsAdmin() {
		return ErrAccessDenied
	}
	if req.ID == id {
		return NewValidationError("", "admins cannot delete their own account")
	}

	result, err := s.UserCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	logging.Logger.Infof("Event ID: USER_DELETED, Description: User %s deleted by %s", id.Hex(), req.ID.Hex())
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail is a light sanity check, not a full RFC parse.
func ValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at < 1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(email, " \t")
}
