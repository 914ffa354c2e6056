// internal/app/system/autherr/autherr.go

// Package autherr defines the closed set of domain error kinds raised by
// the group, token, and account layers. Every store or driver failure is
// wrapped into one of these kinds with structured context; the raw mongo
// error never crosses a feature boundary.
package autherr

import (
	"errors"
	"net/http"
)

// Kind discriminates the error variants. The set is closed: handlers map
// kinds to HTTP statuses and callers switch on KindOf.
type Kind string

const (
	// NotAuthenticated: caller identity missing from the request context.
	NotAuthenticated Kind = "not_authenticated"
	// NotAuthorized: authenticated caller lacks the required scope.
	NotAuthorized Kind = "not_authorized"
	// NotAuthorizedByToken: a verified token's issuer/audience does not
	// match the caller's resolved access.
	NotAuthorizedByToken Kind = "not_authorized_by_token"
	// UnvalidToken: signature invalid, malformed, or expired.
	UnvalidToken Kind = "unvalid_token"
	// GroupNotFound: group or membership row absent, or caller has no
	// visibility into it. Absence and authorization are deliberately
	// indistinguishable so there is no group-existence oracle.
	GroupNotFound Kind = "group_not_found"
	// GroupsDbUpdate: a conditional update matched nothing (duplicate
	// invite, self role change, self removal) or the store call failed.
	GroupsDbUpdate Kind = "groups_db_update"
	// NoGroupsFound: the list query returned no groups for the caller.
	NoGroupsFound Kind = "no_groups_found"

	// Account flow kinds.
	UserNotCreated     Kind = "user_not_created"
	UserNotFound       Kind = "user_not_found"
	UserVerification   Kind = "user_verification"
	UserAuthentication Kind = "user_authentication"
)

// Error carries a kind plus whatever structured context the operation
// had on hand. Unset fields are omitted from logs and responses.
type Error struct {
	Kind    Kind
	Message string

	GroupID  string
	Email    string
	UserID   string
	Audience string

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two autherr values by kind alone, so callers
// can compare against a bare &Error{Kind: ...} sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the kind from err, or "" if err is not an autherr.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is an autherr of the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// HTTPStatus maps an error to the status code a JSON handler should
// write. Unknown errors are internal.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case NotAuthenticated:
		return http.StatusUnauthorized
	case NotAuthorized, NotAuthorizedByToken:
		return http.StatusForbidden
	case UnvalidToken:
		return http.StatusUnauthorized
	case GroupNotFound, UserNotFound, NoGroupsFound:
		return http.StatusNotFound
	case GroupsDbUpdate, UserNotCreated:
		return http.StatusConflict
	case UserVerification, UserAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

/* Constructors. Messages follow the source system's wording so that
   clients matching on them keep working. */

func NewNotAuthenticated() *Error {
	return &Error{Kind: NotAuthenticated, Message: "not authenticated"}
}

func NewNotAuthorized(userID, groupID string) *Error {
	return &Error{Kind: NotAuthorized, Message: "not authorized for group", UserID: userID, GroupID: groupID}
}

func NewNotAuthorizedByToken(userID, audience string) *Error {
	return &Error{Kind: NotAuthorizedByToken, Message: "not authorized by token", UserID: userID, Audience: audience}
}

func NewUnvalidToken(cause error) *Error {
	return &Error{Kind: UnvalidToken, Message: "unvalid token", Err: cause}
}

func NewGroupNotFound(groupID string, cause error) *Error {
	return &Error{Kind: GroupNotFound, Message: "group id not found", GroupID: groupID, Err: cause}
}

func NewGroupsDbUpdate(msg, groupID string, cause error) *Error {
	return &Error{Kind: GroupsDbUpdate, Message: msg, GroupID: groupID, Err: cause}
}

func NewNoGroupsFound(userID, email string) *Error {
	return &Error{Kind: NoGroupsFound, Message: "no groups found", UserID: userID, Email: email}
}

func NewUserNotCreated(msg, email string, cause error) *Error {
	return &Error{Kind: UserNotCreated, Message: msg, Email: email, Err: cause}
}

func NewUserNotFound(email, userID string, cause error) *Error {
	return &Error{Kind: UserNotFound, Message: "user not found", Email: email, UserID: userID, Err: cause}
}

func NewUserVerification(msg, email string, cause error) *Error {
	return &Error{Kind: UserVerification, Message: msg, Email: email, Err: cause}
}

func NewUserAuthentication(msg, email string, cause error) *Error {
	return &Error{Kind: UserAuthentication, Message: msg, Email: email, Err: cause}
}
