// Package authsvc implements admin accounts, login and access tokens.
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	authdto "zeniverse_api/internal/api/auth/dto"
	models "zeniverse_api/internal/api/auth/models"
	basemodels "zeniverse_api/internal/api/base/models"
	basesvc "zeniverse_api/internal/api/base/service"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/logger"
	"zeniverse_api/internal/utility"
)

var adminListFilters = map[string]basesvc.FilterKind{
	"role":     basesvc.FilterString,
	"isActive": basesvc.FilterBool,
}

// AdminService manages admin accounts. It also resolves author references
// for the managed families.
type AdminService struct {
	store  basesvc.BaseServiceMongo[models.Admin]
	tokens *TokenService
	// HashCost is the bcrypt cost of new hashes.
	HashCost int
}

// NewAdminService wires the service over the admins store.
func NewAdminService(store basesvc.BaseServiceMongo[models.Admin], tokens *TokenService) *AdminService {
	return &AdminService{
		store:    store,
		tokens:   tokens,
		HashCost: bcrypt.DefaultCost,
	}
}

func (s *AdminService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeLogin(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Login checks the credentials and issues a token. Unknown accounts and wrong
// passwords give the same error.
func (s *AdminService) Login(ctx context.Context, input *authdto.LoginInput) (*authdto.LoginResult, error) {
	login := normalizeLogin(input.Username)
	admin, err := s.store.FindOne(ctx, bson.M{"$or": []bson.M{{"username": login}, {"email": login}}}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)) != nil {
		return nil, common.ErrInvalidCredentials
	}
	if !admin.IsActive {
		return nil, common.ErrAccountDisabled
	}

	updated, err := s.store.UpdateById(ctx, admin.ID, &basesvc.UpdateData{
		Set: map[string]interface{}{"lastLoginAt": utility.CurrentTimeInMilli()},
	})
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(&updated)
	if err != nil {
		return nil, err
	}
	return &authdto.LoginResult{Token: token, ExpiresAt: expiresAt, Admin: &updated}, nil
}

// Get returns an account by id.
func (s *AdminService) Get(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	admin, err := s.store.FindOneById(ctx, id)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *AdminService) ChangePassword(ctx context.Context, id primitive.ObjectID, input *authdto.ChangePasswordInput) error {
	admin, err := s.store.FindOneById(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.CurrentPassword)) != nil {
		return common.WithMessage(common.ErrInvalidCredentials, "Current password is incorrect")
	}

	hashed, err := s.hash(input.NewPassword)
	if err != nil {
		return err
	}
	_, err = s.store.UpdateById(ctx, id, &basesvc.UpdateData{Set: map[string]interface{}{"password": hashed}})
	return err
}

// ensureUnique reports which of username/email is already taken.
func (s *AdminService) ensureUnique(ctx context.Context, field, value string, exclude *primitive.ObjectID) error {
	filter := bson.M{field: value}
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}
	exists, err := s.store.DocumentExists(ctx, filter)
	if err != nil {
		return err
	}
	if exists {
		return common.WithDetails(common.ErrDuplicate, map[string]string{field: "already in use"})
	}
	return nil
}

// Create adds an active account.
func (s *AdminService) Create(ctx context.Context, input *authdto.AdminCreateInput) (*models.Admin, error) {
	admin := models.Admin{
		Username: normalizeLogin(input.Username),
		Email:    normalizeLogin(input.Email),
		Role:     input.Role,
		IsActive: true,
	}
	if admin.Role == "" {
		admin.Role = basemodels.RoleAdmin
	}

	if err := s.ensureUnique(ctx, "username", admin.Username, nil); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, "email", admin.Email, nil); err != nil {
		return nil, err
	}

	hashed, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}
	admin.Password = hashed

	created, err := s.store.InsertOne(ctx, admin)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// List pages through the accounts. search matches username or email.
func (s *AdminService) List(ctx context.Context, q basesvc.ListQuery) (*basemodels.ListResult[models.Admin], error) {
	filter, err := basesvc.BuildListFilter(q, adminListFilters, []string{"username", "email"})
	if err != nil {
		return nil, err
	}
	return basesvc.ListPage(ctx, s.store, filter, q, []string{"username", "email", "lastLoginAt"})
}

// ListFilterKeys are the query keys List filters on.
func (s *AdminService) ListFilterKeys() []string {
	return []string{"role", "isActive"}
}

// Update changes email, role, active flag or password. A super admin cannot
// demote or deactivate their own account.
func (s *AdminService) Update(ctx context.Context, id primitive.ObjectID, input *authdto.AdminUpdateInput, actor *primitive.ObjectID) (*models.Admin, error) {
	if _, err := s.store.FindOneById(ctx, id); err != nil {
		return nil, err
	}

	self := actor != nil && *actor == id
	if self && ((input.Role != nil && *input.Role != basemodels.RoleSuperAdmin) || (input.IsActive != nil && !*input.IsActive)) {
		return nil, common.WithMessage(common.ErrInvalidState, "You cannot demote or deactivate your own account")
	}

	set := map[string]interface{}{}
	if input.Email != nil {
		email := normalizeLogin(*input.Email)
		if err := s.ensureUnique(ctx, "email", email, &id); err != nil {
			return nil, err
		}
		set["email"] = email
	}
	if input.Role != nil {
		set["role"] = *input.Role
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}
	if input.Password != nil {
		hashed, err := s.hash(*input.Password)
		if err != nil {
			return nil, err
		}
		set["password"] = hashed
	}

	updated, err := s.store.UpdateById(ctx, id, &basesvc.UpdateData{Set: set})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an account other than the caller's.
func (s *AdminService) Delete(ctx context.Context, id primitive.ObjectID, actor *primitive.ObjectID) error {
	if actor != nil && *actor == id {
		return common.ErrSelfDelete
	}
	return s.store.DeleteById(ctx, id)
}

// SeedSuperAdmin creates the first super admin when none exists. Empty
// credentials skip the seed.
func (s *AdminService) SeedSuperAdmin(ctx context.Context, username, email, password string) (*models.Admin, error) {
	log := logger.WithModule("auth")

	exists, err := s.store.DocumentExists(ctx, bson.M{"role": basemodels.RoleSuperAdmin})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}
	if username == "" || email == "" || password == "" {
		log.Warn("No super admin exists and SUPER_ADMIN_* is not configured")
		return nil, nil
	}

	admin, err := s.Create(ctx, &authdto.AdminCreateInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     basemodels.RoleSuperAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed super admin: %w", err)
	}
	log.WithField("username", admin.Username).Info("Seeded super admin")
	return admin, nil
}

// ResolveAuthors implements basesvc.AuthorResolver.
func (s *AdminService) ResolveAuthors(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*basemodels.AuthorRef, error) {
	admins, err := s.store.FindManyByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	refs := make(map[primitive.ObjectID]*basemodels.AuthorRef, len(admins))
	for i := range admins {
		refs[admins[i].ID] = admins[i].AuthorRef()
	}
	return refs, nil
}
