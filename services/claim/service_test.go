package claim

import (
	"context"
	"errors"
	"sync"
	"testing"

	"persian-pages/constants"
	"persian-pages/database/dbtest"
	"persian-pages/models/category"
	"persian-pages/models/listing"
	otpService "persian-pages/services/otp"
	"persian-pages/services/verification"

	"gorm.io/gorm"
)

type codeBook struct {
	mu    sync.Mutex
	codes map[string]string
}

func (b *codeBook) SendSMS(_ context.Context, to, code string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.codes == nil {
		b.codes = map[string]string{}
	}
	b.codes[to] = code
	return nil
}

func (b *codeBook) SendVoiceCall(ctx context.Context, to, code string) error {
	return b.SendSMS(ctx, to, code)
}

func (b *codeBook) code(to string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.codes[to]
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	verifier *verification.Service
	book     *codeBook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	book := &codeBook{}
	verifier := verification.NewService(db, otpService.NewOTPService(book), verification.NewTokenIssuer("test-secret"))
	return &fixture{
		db:       db,
		svc:      NewService(db, verifier),
		verifier: verifier,
		book:     book,
	}
}

func (f *fixture) categoryID(t *testing.T, slug string) string {
	t.Helper()
	var c category.Category
	if err := f.db.Where("slug = ?", slug).First(&c).Error; err != nil {
		t.Fatalf("load category %s: %v", slug, err)
	}
	return c.ID
}

func (f *fixture) scraped(t *testing.T, slug string, phone *string) *listing.Listing {
	t.Helper()
	placeID := "place-" + slug
	l := &listing.Listing{
		Slug:       slug,
		PlaceID:    &placeID,
		Title:      "رستوران شاندیز",
		CategoryID: f.categoryID(t, "restaurant"),
		City:       "تورنتو",
		Country:    "کانادا",
		Phone:      phone,
		Source:     constants.SourceScraped,
	}
	if err := f.db.Create(l).Error; err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return l
}

// verify runs send and confirm for userID and returns the token.
func (f *fixture) verify(t *testing.T, userID, phone, listingID string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := f.verifier.Send(ctx, userID, verification.SendInput{Phone: phone, ListingID: listingID}); err != nil {
		t.Fatalf("send: %v", err)
	}
	token, err := f.verifier.Confirm(ctx, userID, verification.ConfirmInput{Phone: phone, Code: f.book.code(phone)})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	return token
}

func strPtr(s string) *string { return &s }

const phone = "+14167360123"

func TestClaimScrapedListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.scraped(t, "shandiz", strPtr(phone))

	hint, err := f.verifier.PhoneHint(ctx, l.ID)
	if err != nil || hint != "********0123" {
		t.Fatalf("phone hint = %q, %v", hint, err)
	}

	token := f.verify(t, "owner", phone, l.ID)
	claimed, err := f.svc.Claim(ctx, l.ID, "owner", token)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !claimed.IsClaimed || !claimed.OwnedBy("owner") || claimed.ClaimedAt == nil || !claimed.PhoneVerified {
		t.Fatalf("unexpected claimed listing %+v", claimed)
	}
	if claimed.Category == nil || claimed.Category.Slug != "restaurant" {
		t.Fatalf("claimed listing should include its category")
	}

	if _, err := f.svc.Claim(ctx, l.ID, "owner", token); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed on second claim, got %v", err)
	}

	var events int64
	f.db.Model(&listing.ListingEvent{}).Where("listing_id = ? AND event_type = ?", l.ID, "claimed").Count(&events)
	if events != 1 {
		t.Fatalf("expected one claimed event, got %d", events)
	}
}

func TestClaimRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.scraped(t, "shandiz", strPtr(phone))
	noPhone := f.scraped(t, "bi-telefon", nil)

	if _, err := f.svc.Claim(ctx, "missing", "owner", "x"); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
	if _, err := f.svc.Claim(ctx, noPhone.ID, "owner", "x"); !errors.Is(err, ErrListingHasNoPhone) {
		t.Fatalf("expected ErrListingHasNoPhone, got %v", err)
	}
	if _, err := f.svc.Claim(ctx, l.ID, "owner", ""); !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("expected ErrTokenRequired, got %v", err)
	}

	token := f.verify(t, "owner", phone, l.ID)
	if _, err := f.svc.Claim(ctx, l.ID, "intruder", token); !errors.Is(err, verification.ErrTokenForbidden) {
		t.Fatalf("expected ErrTokenForbidden, got %v", err)
	}

	other := f.scraped(t, "other", strPtr("+14165550199"))
	if _, err := f.svc.Claim(ctx, other.ID, "owner", token); !errors.Is(err, verification.ErrVerifiedPhoneDiffers) {
		t.Fatalf("expected ErrVerifiedPhoneDiffers, got %v", err)
	}

	for _, id := range []string{l.ID, other.ID} {
		var reloaded listing.Listing
		if err := f.db.First(&reloaded, "id = ?", id).Error; err != nil {
			t.Fatalf("reload %s: %v", id, err)
		}
		if reloaded.IsClaimed || reloaded.UserID != nil {
			t.Fatalf("rejected claims must not modify listing %s", id)
		}
	}
}

func TestClaimTokenSpentOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.scraped(t, "first", strPtr(phone))
	second := f.scraped(t, "second", strPtr(phone))

	// Sent without a listing, so only consumption stops a second claim.
	token := f.verify(t, "owner", phone, "")
	if _, err := f.svc.Claim(ctx, first.ID, "owner", token); err != nil {
		t.Fatalf("claim first: %v", err)
	}
	if _, err := f.svc.Claim(ctx, second.ID, "owner", token); !errors.Is(err, verification.ErrTokenConsumed) {
		t.Fatalf("expected ErrTokenConsumed, got %v", err)
	}

	var reloaded listing.Listing
	if err := f.db.First(&reloaded, "id = ?", second.ID).Error; err != nil {
		t.Fatalf("reload second: %v", err)
	}
	if reloaded.IsClaimed || reloaded.UserID != nil {
		t.Fatalf("second listing must stay unclaimed")
	}
}

func TestClaimTokenBoundToAnotherListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.scraped(t, "first", strPtr(phone))
	second := f.scraped(t, "second", strPtr(phone))

	token := f.verify(t, "owner", phone, first.ID)
	if _, err := f.svc.Claim(ctx, second.ID, "owner", token); !errors.Is(err, verification.ErrTokenListingMismatch) {
		t.Fatalf("expected ErrTokenListingMismatch, got %v", err)
	}
}

func TestConcurrentClaimsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.scraped(t, "shandiz", strPtr(phone))

	users := []string{"alice", "bob", "carol"}
	tokens := make([]string, len(users))
	for i, u := range users {
		tokens[i] = f.verify(t, u, phone, l.ID)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(users))
	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Claim(ctx, l.ID, users[i], tokens[i])
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrAlreadyClaimed):
		default:
			t.Fatalf("claim by %s: unexpected error %v", users[i], err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}

	var reloaded listing.Listing
	f.db.First(&reloaded, "id = ?", l.ID)
	if reloaded.UserID == nil {
		t.Fatalf("winner must own the listing")
	}
}

func TestUpdatePhoneVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.scraped(t, "shandiz", strPtr(phone))
	token := f.verify(t, "owner", phone, l.ID)
	if _, err := f.svc.Claim(ctx, l.ID, "owner", token); err != nil {
		t.Fatalf("claim: %v", err)
	}

	if _, err := f.svc.Update(ctx, l.ID, "someone", UpdateInput{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// National format is normalized with the listing's country.
	updated, err := f.svc.Update(ctx, l.ID, "owner", UpdateInput{Phone: strPtr("(416) 736-0175")})
	if err != nil {
		t.Fatalf("update phone: %v", err)
	}
	if updated.PhoneValue() != "+14167360175" || updated.PhoneVerified {
		t.Fatalf("phone change must reset verification: phone=%q verified=%v", updated.PhoneValue(), updated.PhoneVerified)
	}

	if _, err := f.svc.Update(ctx, l.ID, "owner", UpdateInput{VerificationToken: token}); !errors.Is(err, verification.ErrVerifiedPhoneDiffers) {
		t.Fatalf("old token must not verify the new phone, got %v", err)
	}

	newToken := f.verify(t, "owner", "+14167360175", "")
	updated, err = f.svc.Update(ctx, l.ID, "owner", UpdateInput{VerificationToken: newToken})
	if err != nil {
		t.Fatalf("verify new phone: %v", err)
	}
	if !updated.PhoneVerified {
		t.Fatalf("token for the current phone must set verified")
	}
	if _, err := f.svc.Update(ctx, l.ID, "owner", UpdateInput{VerificationToken: newToken}); !errors.Is(err, verification.ErrTokenConsumed) {
		t.Fatalf("expected ErrTokenConsumed on reuse, got %v", err)
	}

	// Same phone again keeps the flag.
	updated, err = f.svc.Update(ctx, l.ID, "owner", UpdateInput{Phone: strPtr("+1 416 736 0175")})
	if err != nil {
		t.Fatalf("update same phone: %v", err)
	}
	if !updated.PhoneVerified {
		t.Fatalf("unchanged phone must stay verified")
	}
}

func TestUpdateRegeneratesSlugOnTitleChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "owner", CreateInput{
		Title:       "Apadana",
		Description: "Persian grill",
		CategoryID:  f.categoryID(t, "restaurant"),
		Address:     "1 Yonge St",
		City:        "Toronto",
		Country:     "Canada",
		Phone:       "416-736-0123",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Slug != "apadana-toronto" {
		t.Fatalf("unexpected slug %q", created.Slug)
	}
	if created.PhoneValue() != phone || !created.IsClaimed || !created.OwnedBy("owner") || created.Source != "user" {
		t.Fatalf("unexpected created listing %+v", created)
	}

	f.scraped(t, "darband-toronto", nil)

	updated, err := f.svc.Update(ctx, created.ID, "owner", UpdateInput{Description: strPtr("Kabab")})
	if err != nil {
		t.Fatalf("update description: %v", err)
	}
	if updated.Slug != "apadana-toronto" {
		t.Fatalf("slug must not change without a title or city change, got %q", updated.Slug)
	}

	updated, err = f.svc.Update(ctx, created.ID, "owner", UpdateInput{Title: strPtr("Darband")})
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if updated.Slug != "darband-toronto-2" {
		t.Fatalf("expected darband-toronto-2, got %q", updated.Slug)
	}
}

func TestCreateValidationListAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, "owner", CreateInput{Title: "x"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	in := CreateInput{
		Title:       "Tehran Market",
		Description: "Groceries",
		CategoryID:  "missing",
		Address:     "2 Main St",
		City:        "Vancouver",
		Country:     "کانادا",
		Phone:       "+16045550100",
	}
	if _, err := f.svc.Create(ctx, "owner", in); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}

	in.CategoryID = f.categoryID(t, "grocery")
	first, err := f.svc.Create(ctx, "owner", in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := f.svc.Create(ctx, "owner", in)
	if err != nil {
		t.Fatalf("create duplicate title: %v", err)
	}
	if first.Slug != "tehran-market-vancouver" || second.Slug != "tehran-market-vancouver-2" {
		t.Fatalf("unexpected slugs %q %q", first.Slug, second.Slug)
	}

	got, err := f.svc.Get(ctx, second.Slug)
	if err != nil || got.ID != second.ID {
		t.Fatalf("get by slug: %v", err)
	}

	mine, err := f.svc.ListMine(ctx, "owner")
	if err != nil || len(mine) != 2 {
		t.Fatalf("list mine: %d, %v", len(mine), err)
	}

	if err := f.svc.Delete(ctx, first.ID, "intruder"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(ctx, first.ID, "owner"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Get(ctx, first.ID); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound after delete, got %v", err)
	}
}
