// internal/app/store/groups/groupstore.go

// Package groupstore owns every mutation of a group's member and access
// lists. Each mutation is a single conditional update: the filter carries
// both the target selection and the acting member's authorization, so a
// stale precondition simply matches nothing and no intermediate state is
// ever observable. Self-protection (an admin can neither change nor
// remove their own row) lives inside the same filter rather than as a
// separate pre-check, which closes the race where two concurrent calls
// could jointly leave a group admin-less.
package groupstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scopehub/scopehub/internal/app/system/autherr"
	"github.com/scopehub/scopehub/internal/app/system/identity"
	"github.com/scopehub/scopehub/internal/domain/models"
)

// listMax caps an unbounded list query.
const listMax = 10_000_000

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// UpdateResult reports the outcome of a conditional update. UpToDate
// means the filter matched but the document already held the desired
// state; both outcomes are success, so retried mutations stay idempotent.
type UpdateResult struct {
	ID       string
	UpToDate bool
}

// InviteResult reports a successful invitation.
type InviteResult struct {
	Email   string `json:"email"`
	GroupID string `json:"group_id"`
	Role    string `json:"role"`
}

// adminFilter selects the group only when a single member row carries
// both the caller's id and the admin role.
func adminFilter(id primitive.ObjectID, callerID string) bson.M {
	return bson.M{
		"_id":     id,
		"members": bson.M{"$elemMatch": bson.M{"id": callerID, "role": models.RoleAdmin}},
	}
}

// memberFilter selects the group when the caller appears in the member
// list by id or by invited email.
func memberFilter(caller identity.Caller) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"members.id": caller.ID},
			{"members.email": caller.Email},
		},
	}
}

func requireCaller(caller identity.Caller) error {
	if !caller.Authenticated() {
		return autherr.NewNotAuthenticated()
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, autherr.NewGroupNotFound(id, err)
	}
	return oid, nil
}

// Create inserts a new group whose only member is the caller as admin.
func (s *Store) Create(ctx context.Context, caller identity.Caller, name string) (models.Group, error) {
	if err := requireCaller(caller); err != nil {
		return models.Group{}, err
	}
	g := models.Group{
		ID:   primitive.NewObjectID(),
		Name: name,
		Members: []models.Member{
			{ID: caller.ID, Email: caller.Email, Role: models.RoleAdmin},
		},
	}
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, autherr.NewGroupsDbUpdate("db insert failed", "", err)
	}
	return g, nil
}

// GetByID returns the group when the caller is a member of it. Absence
// and lack of visibility are reported identically.
func (s *Store) GetByID(ctx context.Context, caller identity.Caller, id string) (models.Group, error) {
	if err := requireCaller(caller); err != nil {
		return models.Group{}, err
	}
	oid, err := parseID(id)
	if err != nil {
		return models.Group{}, err
	}
	filter := memberFilter(caller)
	filter["_id"] = oid

	var g models.Group
	if err := s.c.FindOne(ctx, filter).Decode(&g); err != nil {
		return models.Group{}, autherr.NewGroupNotFound(id, err)
	}
	return g, nil
}

// List returns a page of groups the caller is a member of.
func (s *Store) List(ctx context.Context, caller identity.Caller, limit, offset int64) ([]models.Group, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = listMax
	}
	opts := options.Find().SetSkip(offset).SetLimit(limit)
	cur, err := s.c.Find(ctx, memberFilter(caller), opts)
	if err != nil {
		return nil, autherr.NewNoGroupsFound(caller.ID, caller.Email)
	}

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, autherr.NewNoGroupsFound(caller.ID, caller.Email)
	}
	if len(groups) == 0 {
		return nil, autherr.NewNoGroupsFound(caller.ID, caller.Email)
	}
	return groups, nil
}

// Rename sets the group name. Admin only.
func (s *Store) Rename(ctx context.Context, caller identity.Caller, id, name string) (UpdateResult, error) {
	if err := requireCaller(caller); err != nil {
		return UpdateResult{}, err
	}
	oid, err := parseID(id)
	if err != nil {
		return UpdateResult{}, err
	}
	res, err := s.c.UpdateOne(ctx, adminFilter(oid, caller.ID), bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return UpdateResult{}, autherr.NewGroupNotFound(id, err)
	}
	return updateResult(id, res)
}

// Invite appends a member row for email, unless that email is already a
// member. The duplicate guard and the admin check share the filter of
// the single update, so a lost race reports as an unmatched update.
func (s *Store) Invite(ctx context.Context, caller identity.Caller, id, email, role string) (InviteResult, error) {
	if err := requireCaller(caller); err != nil {
		return InviteResult{}, err
	}
	oid, err := parseID(id)
	if err != nil {
		return InviteResult{}, err
	}
	if role == "" {
		role = models.RoleMember
	}
	filter := adminFilter(oid, caller.ID)
	filter["members.email"] = bson.M{"$ne": email}
	update := bson.M{"$push": bson.M{"members": models.Member{Email: email, Role: role}}}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return InviteResult{}, autherr.NewGroupNotFound(id, err)
	}
	if res.ModifiedCount == 0 {
		return InviteResult{}, autherr.NewGroupsDbUpdate("group id not found or already invited", id, nil)
	}
	return InviteResult{Email: email, GroupID: id, Role: role}, nil
}

// Join accepts an invitation: the row keyed by the caller's email gets
// the caller's id. Only the invitation target can ever set that id.
func (s *Store) Join(ctx context.Context, caller identity.Caller, id string) (UpdateResult, error) {
	return s.updateOwnRow(ctx, caller, id, bson.M{"$set": bson.M{"members.$.id": caller.ID}})
}

// Leave unsets the caller's id on their own row. The email row stays
// behind as a contact record.
func (s *Store) Leave(ctx context.Context, caller identity.Caller, id string) (UpdateResult, error) {
	return s.updateOwnRow(ctx, caller, id, bson.M{"$unset": bson.M{"members.$.id": ""}})
}

// Hide sets the caller's per-member display preference.
func (s *Store) Hide(ctx context.Context, caller identity.Caller, id string, hide bool) (UpdateResult, error) {
	return s.updateOwnRow(ctx, caller, id, bson.M{"$set": bson.M{"members.$.hide": hide}})
}

// Alias sets or clears the caller's display-name override.
func (s *Store) Alias(ctx context.Context, caller identity.Caller, id, alias string) (UpdateResult, error) {
	update := bson.M{"$unset": bson.M{"members.$.alias": ""}}
	if alias != "" {
		update = bson.M{"$set": bson.M{"members.$.alias": alias}}
	}
	return s.updateOwnRow(ctx, caller, id, update)
}

// updateOwnRow applies an update positioned on the member row keyed by
// the caller's email.
func (s *Store) updateOwnRow(ctx context.Context, caller identity.Caller, id string, update bson.M) (UpdateResult, error) {
	if err := requireCaller(caller); err != nil {
		return UpdateResult{}, err
	}
	oid, err := parseID(id)
	if err != nil {
		return UpdateResult{}, err
	}
	filter := bson.M{"_id": oid, "members.email": caller.Email}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return UpdateResult{}, autherr.NewGroupNotFound(id, err)
	}
	return updateResult(id, res)
}

// SetRole changes a member's role. The caller must be an admin and may
// not target their own row: the email comparison is rejected before any
// store call, and the conditional update additionally excludes any row
// carrying the caller's id.
func (s *Store) SetRole(ctx context.Context, caller identity.Caller, id, email, role string) (UpdateResult, error) {
	if err := requireCaller(caller); err != nil {
		return UpdateResult{}, err
	}
	if email == caller.Email {
		return UpdateResult{}, autherr.NewGroupsDbUpdate("member cannot change his own role", id, nil)
	}
	oid, err := parseID(id)
	if err != nil {
		return UpdateResult{}, err
	}
	if err := s.requireAdmin(ctx, oid, caller, id); err != nil {
		return UpdateResult{}, err
	}

	filter := bson.M{
		"_id":     oid,
		"members": bson.M{"$elemMatch": bson.M{"id": bson.M{"$ne": caller.ID}, "email": email}},
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"members.$.role": role}})
	if err != nil {
		return UpdateResult{}, autherr.NewGroupNotFound(id, err)
	}
	if res.ModifiedCount > 0 {
		return UpdateResult{ID: id}, nil
	}
	if res.MatchedCount > 0 {
		return UpdateResult{ID: id, UpToDate: true}, nil
	}
	return UpdateResult{}, autherr.NewGroupsDbUpdate("member not found or nothing to change", id, nil)
}

// Remove pulls the member row for email. The pull predicate excludes the
// caller's own id, so an admin cannot remove themselves even when the
// email matches their own row.
func (s *Store) Remove(ctx context.Context, caller identity.Caller, id, email string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.requireAdmin(ctx, oid, caller, id); err != nil {
		return err
	}

	update := bson.M{
		"$pull": bson.M{"members": bson.M{"email": email, "id": bson.M{"$ne": caller.ID}}},
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return autherr.NewGroupNotFound(id, err)
	}
	if res.ModifiedCount == 0 {
		return autherr.NewGroupsDbUpdate("group id not found or already removed", id, nil)
	}
	return nil
}

// Members returns the member list for group members.
func (s *Store) Members(ctx context.Context, caller identity.Caller, id string) ([]models.Member, error) {
	g, err := s.GetByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return g.Members, nil
}

// AddAccess grants the foreign group one-hop visibility into this group.
// Access is a set: $addToSet keeps re-grants idempotent.
func (s *Store) AddAccess(ctx context.Context, caller identity.Caller, id, group string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx, adminFilter(oid, caller.ID), bson.M{"$addToSet": bson.M{"access": group}})
	if err != nil {
		return autherr.NewGroupNotFound(id, err)
	}
	if res.MatchedCount == 0 {
		return autherr.NewGroupsDbUpdate("group id not found", id, nil)
	}
	return nil
}

// RemoveAccess revokes a previously granted delegation.
func (s *Store) RemoveAccess(ctx context.Context, caller identity.Caller, id, group string) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.c.UpdateOne(ctx, adminFilter(oid, caller.ID), bson.M{"$pull": bson.M{"access": group}})
	if err != nil {
		return autherr.NewGroupNotFound(id, err)
	}
	if res.ModifiedCount == 0 {
		return autherr.NewGroupsDbUpdate("group id not found or access already removed", id, nil)
	}
	return nil
}

// AccessFor resolves the caller's accessible scopes: the groups they are
// a member of plus, one hop out, the groups that delegated access to any
// of those. Chained delegations are deliberately not followed.
func (s *Store) AccessFor(ctx context.Context, caller identity.Caller) ([]string, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, memberFilter(caller), opts)
	if err != nil {
		return nil, autherr.NewNoGroupsFound(caller.ID, caller.Email)
	}
	member, err := collectIDs(ctx, cur)
	if err != nil {
		return nil, autherr.NewNoGroupsFound(caller.ID, caller.Email)
	}
	if len(member) == 0 {
		return nil, nil
	}

	cur, err = s.c.Find(ctx, bson.M{"access": bson.M{"$in": member}}, opts)
	if err != nil {
		return nil, autherr.NewNoGroupsFound(caller.ID, caller.Email)
	}
	delegated, err := collectIDs(ctx, cur)
	if err != nil {
		return nil, autherr.NewNoGroupsFound(caller.ID, caller.Email)
	}

	seen := make(map[string]bool, len(member)+len(delegated))
	access := make([]string, 0, len(member)+len(delegated))
	for _, id := range append(member, delegated...) {
		if !seen[id] {
			seen[id] = true
			access = append(access, id)
		}
	}
	return access, nil
}

// requireAdmin resolves the group through the admin filter, reporting
// GroupNotFound when the caller is not an admin member of it.
func (s *Store) requireAdmin(ctx context.Context, oid primitive.ObjectID, caller identity.Caller, id string) error {
	if err := s.c.FindOne(ctx, adminFilter(oid, caller.ID)).Err(); err != nil {
		return autherr.NewGroupNotFound(id, err)
	}
	return nil
}

func updateResult(id string, res *mongo.UpdateResult) (UpdateResult, error) {
	if res.ModifiedCount > 0 {
		return UpdateResult{ID: id}, nil
	}
	if res.MatchedCount > 0 {
		return UpdateResult{ID: id, UpToDate: true}, nil
	}
	return UpdateResult{}, autherr.NewGroupNotFound(id, nil)
}

func collectIDs(ctx context.Context, cur *mongo.Cursor) ([]string, error) {
	defer cur.Close(ctx)
	var ids []string
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID.Hex())
	}
	return ids, cur.Err()
}
