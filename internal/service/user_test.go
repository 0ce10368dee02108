package service

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/hoaxify/internal/validation"
	"golang.org/x/text/language"
)

func TestUserService_Register_StoresInactiveUserWithHashedPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.userService.Register(ctx, RegisterInput{
		Username: "user1",
		Email:    " User1@Mail.com ",
		Password: "P4ssword",
	}, language.Turkish)
	require.NoError(t, err)

	stored, err := env.users.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "user1@mail.com", stored.Email)
	assert.NotEqual(t, "P4ssword", stored.PasswordHash)
	assert.False(t, stored.IsActive())
	require.NotNil(t, stored.ActivationToken)

	sent := env.mailer.last()
	assert.Equal(t, emailActivation, sent.Kind)
	assert.Equal(t, "user1@mail.com", sent.To)
	assert.Equal(t, *stored.ActivationToken, sent.Token)
	assert.Equal(t, language.Turkish, sent.Locale)
}

func TestUserService_Register_MailFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.fail = true
	ctx := context.Background()

	_, err := env.userService.Register(ctx, RegisterInput{
		Username: "user1",
		Email:    "user1@mail.com",
		Password: "P4ssword",
	}, language.English)
	requireKind(t, err, KindEmailDelivery, MsgEmailFailure)

	var count int
	require.NoError(t, env.db.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Zero(t, count)
}

func TestUserService_Register_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.userService.Register(ctx, RegisterInput{Username: "usr", Email: "a@b.com", Password: "P4ssword"}, language.English)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, validation.UsernameSize, errs.Key(validation.FieldUsername))
	assert.Len(t, errs, 1)

	_, err = env.userService.Register(ctx, RegisterInput{}, language.English)
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, validation.Errors{
		{Field: validation.FieldUsername, Key: validation.UsernameNull},
		{Field: validation.FieldEmail, Key: validation.EmailNull},
		{Field: validation.FieldPassword, Key: validation.PasswordNull},
	}, errs)
}

func TestUserService_Register_EmailInUseReportedWithOtherFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActive(t, "user1")

	_, err := env.userService.Register(ctx, RegisterInput{Email: "user1@mail.com", Password: "P4ssword"}, language.English)
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, validation.Errors{
		{Field: validation.FieldUsername, Key: validation.UsernameNull},
		{Field: validation.FieldEmail, Key: validation.EmailInUse},
	}, errs)
}

func TestUserService_Activate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.userService.Register(ctx, RegisterInput{Username: "user1", Email: "user1@mail.com", Password: "P4ssword"}, language.English)
	require.NoError(t, err)
	token := *user.ActivationToken

	require.NoError(t, env.userService.Activate(ctx, token))

	stored, err := env.users.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive())
	assert.Nil(t, stored.ActivationToken)

	requireKind(t, env.userService.Activate(ctx, token), KindInvalidToken, MsgAccountActivationFailure)
	requireKind(t, env.userService.Activate(ctx, ""), KindInvalidToken, MsgAccountActivationFailure)
}

func TestUserService_Activate_KeepsResetToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.userService.Register(ctx, RegisterInput{Username: "user1", Email: "user1@mail.com", Password: "P4ssword"}, language.English)
	require.NoError(t, err)
	require.NoError(t, env.userService.RequestPasswordReset(ctx, "user1@mail.com", language.English))
	require.NoError(t, env.userService.Activate(ctx, *user.ActivationToken))

	stored, err := env.users.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.PasswordResetToken)
}

func TestUserService_UsersExcludesCallerAndInactive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	caller := env.registerActive(t, "user1")
	env.registerActive(t, "user2")
	env.registerActive(t, "user3")
	_, err := env.userService.Register(ctx, RegisterInput{Username: "user4", Email: "user4@mail.com", Password: "P4ssword"}, language.English)
	require.NoError(t, err)

	page, err := env.userService.Users(ctx, 0, 10, nil)
	require.NoError(t, err)
	assert.Len(t, page.Content, 3)
	assert.Equal(t, 1, page.TotalPages)

	page, err = env.userService.Users(ctx, 0, 1, caller)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "user2", page.Content[0].Username)
	assert.Equal(t, 2, page.TotalPages)
}

func TestUserService_ByID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerActive(t, "user1")

	view, err := env.userService.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "user1", view.Username)

	_, err = env.userService.ByID(ctx, user.ID+100)
	requireKind(t, err, KindNotFound, MsgUserNotFound)

	inactive, err := env.userService.Register(ctx, RegisterInput{Username: "user2", Email: "user2@mail.com", Password: "P4ssword"}, language.English)
	require.NoError(t, err)
	_, err = env.userService.ByID(ctx, inactive.ID)
	requireKind(t, err, KindNotFound, MsgUserNotFound)
}

func TestUserService_Update_RequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user1 := env.registerActive(t, "user1")
	user2 := env.registerActive(t, "user2")

	_, err := env.userService.Update(ctx, nil, user1.ID, UpdateInput{Username: "updated"})
	requireKind(t, err, KindForbidden, MsgUnauthorizedUserUpdate)

	_, err = env.userService.Update(ctx, user2, user1.ID, UpdateInput{Username: "updated"})
	requireKind(t, err, KindForbidden, MsgUnauthorizedUserUpdate)
}

func TestUserService_Update_ReplacesImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerActive(t, "user1")
	encoded := base64.StdEncoding.EncodeToString(pngBytes(t))

	view, err := env.userService.Update(ctx, user, user.ID, UpdateInput{Username: "updated", Image: &encoded})
	require.NoError(t, err)
	assert.Equal(t, "updated", view.Username)
	require.NotNil(t, view.Image)
	first := *view.Image
	assert.True(t, env.fileExists(t, profileDir, first))

	view, err = env.userService.Update(ctx, user, user.ID, UpdateInput{Username: "updated", Image: &encoded})
	require.NoError(t, err)
	second := *view.Image
	assert.NotEqual(t, first, second)
	assert.False(t, env.fileExists(t, profileDir, first))
	assert.True(t, env.fileExists(t, profileDir, second))

	view, err = env.userService.Update(ctx, user, user.ID, UpdateInput{Username: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, second, *view.Image)
}

func TestUserService_Update_ValidationCombinesFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerActive(t, "user1")
	text := base64.StdEncoding.EncodeToString([]byte("not an image at all"))

	_, err := env.userService.Update(ctx, user, user.ID, UpdateInput{Username: "", Image: &text})
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, validation.Errors{
		{Field: validation.FieldUsername, Key: validation.UsernameNull},
		{Field: validation.FieldImage, Key: validation.UnsupportedImageFile},
	}, errs)
}

func TestUserService_Delete_RemovesEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerActive(t, "user1")
	other := env.registerActive(t, "user2")

	encoded := base64.StdEncoding.EncodeToString(pngBytes(t))
	view, err := env.userService.Update(ctx, user, user.ID, UpdateInput{Username: "user1", Image: &encoded})
	require.NoError(t, err)
	image := *view.Image

	attachment, err := env.files.SaveAttachment(ctx, strings.NewReader("attachment body"))
	require.NoError(t, err)
	_, err = env.hoaxService.Create(ctx, user, "hoax with attachment", &attachment.ID)
	require.NoError(t, err)
	_, err = env.hoaxService.Create(ctx, other, "hoax of someone else", nil)
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, "user1@mail.com", "P4ssword")
	require.NoError(t, err)

	requireKind(t, env.userService.Delete(ctx, other, user.ID), KindForbidden, MsgUnauthorizedUserDelete)
	require.NoError(t, env.userService.Delete(ctx, user, user.ID))

	_, err = env.users.ByID(ctx, user.ID)
	require.Error(t, err)

	var tokens, hoaxes, attachments int
	require.NoError(t, env.db.Get(&tokens, "SELECT COUNT(*) FROM tokens WHERE user_id = $1", user.ID))
	require.NoError(t, env.db.Get(&hoaxes, "SELECT COUNT(*) FROM hoaxes WHERE user_id = $1", user.ID))
	require.NoError(t, env.db.Get(&attachments, "SELECT COUNT(*) FROM attachments"))
	assert.Zero(t, tokens)
	assert.Zero(t, hoaxes)
	assert.Zero(t, attachments)
	assert.False(t, env.fileExists(t, profileDir, image))
	assert.False(t, env.fileExists(t, attachmentDir, attachment.Filename))

	count, err := env.hoaxes.Count(ctx, &other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserService_Delete_MissingFilesDoNotBlock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerActive(t, "user1")

	missing := "gone"
	user.Image = &missing
	require.NoError(t, env.users.Update(ctx, user))

	require.NoError(t, env.userService.Delete(ctx, user, user.ID))
	_, err := env.users.ByID(ctx, user.ID)
	require.Error(t, err)
}

func TestUserService_Delete_StorageFailuresDoNotBlock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerActive(t, "user1")

	encoded := base64.StdEncoding.EncodeToString(pngBytes(t))
	view, err := env.userService.Update(ctx, user, user.ID, UpdateInput{Username: "user1", Image: &encoded})
	require.NoError(t, err)
	require.NotNil(t, view.Image)

	attachment, err := env.files.SaveAttachment(ctx, strings.NewReader("attachment body"))
	require.NoError(t, err)
	_, err = env.hoaxService.Create(ctx, user, "hoax with attachment", &attachment.ID)
	require.NoError(t, err)
	_, err = env.auth.Login(ctx, "user1@mail.com", "P4ssword")
	require.NoError(t, err)

	env.store.setFailDelete(true)
	require.NoError(t, env.userService.Delete(ctx, user, user.ID))

	_, err = env.users.ByID(ctx, user.ID)
	require.Error(t, err)

	var tokens, hoaxes, attachments int
	require.NoError(t, env.db.Get(&tokens, "SELECT COUNT(*) FROM tokens WHERE user_id = $1", user.ID))
	require.NoError(t, env.db.Get(&hoaxes, "SELECT COUNT(*) FROM hoaxes WHERE user_id = $1", user.ID))
	require.NoError(t, env.db.Get(&attachments, "SELECT COUNT(*) FROM attachments"))
	assert.Zero(t, tokens)
	assert.Zero(t, hoaxes)
	assert.Zero(t, attachments)

	// Stored files survive for a later sweep.
	assert.True(t, env.fileExists(t, profileDir, *view.Image))
	assert.True(t, env.fileExists(t, attachmentDir, attachment.Filename))
}

func TestUserService_RequestPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerActive(t, "user1")

	requireKind(t, env.userService.RequestPasswordReset(ctx, "nobody@mail.com", language.English), KindNotFound, MsgEmailNotInUse)

	require.NoError(t, env.userService.RequestPasswordReset(ctx, "USER1@mail.com", language.English))
	stored, err := env.users.ByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordResetToken)
	assert.Equal(t, emailPasswordReset, env.mailer.last().Kind)
	assert.Equal(t, *stored.PasswordResetToken, env.mailer.last().Token)

	env.mailer.fail = true
	err = env.userService.RequestPasswordReset(ctx, "user1@mail.com", language.English)
	requireKind(t, err, KindEmailDelivery, MsgEmailFailure)
}

func TestUserService_ResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.userService.Register(ctx, RegisterInput{Username: "user1", Email: "user1@mail.com", Password: "P4ssword"}, language.English)
	require.NoError(t, err)
	require.NoError(t, env.userService.RequestPasswordReset(ctx, "user1@mail.com", language.English))
	resetToken := env.mailer.last().Token

	requireKind(t, env.userService.ResetPassword(ctx, "", "N3wPassword"), KindForbidden, MsgUnauthorizedPasswordReset)
	requireKind(t, env.userService.ResetPassword(ctx, "unknown", "weak"), KindForbidden, MsgUnauthorizedPasswordReset)

	err = env.userService.ResetPassword(ctx, resetToken, "weak")
	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, validation.PasswordSize, errs.Key(validation.FieldPassword))

	require.NoError(t, env.userService.ResetPassword(ctx, resetToken, "N3wPassword"))

	stored, err := env.users.ByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive())
	assert.Nil(t, stored.ActivationToken)
	assert.Nil(t, stored.PasswordResetToken)

	_, err = env.auth.Login(ctx, "user1@mail.com", "P4ssword")
	requireKind(t, err, KindAuthentication, MsgAuthenticationFailure)
	_, err = env.auth.Login(ctx, "user1@mail.com", "N3wPassword")
	require.NoError(t, err)

	requireKind(t, env.userService.ResetPassword(ctx, resetToken, "N3wPassword"), KindForbidden, MsgUnauthorizedPasswordReset)
}

func TestUserService_ResetPassword_RevokesSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerActive(t, "user1")

	session, err := env.auth.Login(ctx, "user1@mail.com", "P4ssword")
	require.NoError(t, err)
	require.NoError(t, env.userService.RequestPasswordReset(ctx, "user1@mail.com", language.English))
	require.NoError(t, env.userService.ResetPassword(ctx, env.mailer.last().Token, "N3wPassword"))

	resolved, err := env.auth.Resolve(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, resolved)
}
