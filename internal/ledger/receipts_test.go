package ledger_test

import (
	"context"
	"time"

	"freelance-ledger/internal/ledger"
	"freelance-ledger/internal/models"
)

type fakeBlobs struct{}

func (fakeBlobs) UploadURL(context.Context) (models.Upload, error) {
	return models.Upload{StorageID: "id-1", URL: "/files/id-1"}, nil
}

func (fakeBlobs) URL(_ context.Context, id string) (string, error) {
	return "/files/" + id, nil
}

func (s *LedgerSuite) TestReceiptsNeedBlobStore() {
	_, err := s.svc.GenerateUploadURL(s.ctx, s.alice)
	s.ErrorIs(err, ledger.ErrNoBlobStore)

	_, err = s.svc.ReceiptURL(s.ctx, s.alice, "id-1")
	s.ErrorIs(err, ledger.ErrNoBlobStore)
}

func (s *LedgerSuite) TestReceiptUploadFlow() {
	svc := ledger.New(s.db, ledger.WithBlobStore(fakeBlobs{}), ledger.WithClock(func() time.Time { return s.now }))

	_, err := svc.GenerateUploadURL(s.ctx, models.Identity{})
	s.ErrorIs(err, ledger.ErrUnauthenticated)

	up, err := svc.GenerateUploadURL(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal("id-1", up.StorageID)

	id, err := svc.SaveReceipt(s.ctx, s.alice, ledger.ReceiptInput{StorageID: up.StorageID, FileName: "a.jpg", MimeType: "image/jpeg", Size: 10})
	s.Require().NoError(err)
	r, err := s.db.Receipt(s.ctx, id)
	s.Require().NoError(err)
	s.True(s.now.Equal(r.UploadedAt))
	s.Nil(r.ExpenseID)

	url, err := svc.ReceiptURL(s.ctx, s.alice, up.StorageID)
	s.Require().NoError(err)
	s.Equal("/files/id-1", url)

	_, err = svc.SaveReceipt(s.ctx, models.Identity{Subject: "stranger"}, ledger.ReceiptInput{StorageID: "x"})
	s.ErrorIs(err, ledger.ErrUserNotFound)
}
