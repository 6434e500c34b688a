package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kassabot/kassa_backend/internal/core/domain"
)

func TestRecord_Kind(t *testing.T) {
	donor := "alice"

	tests := []struct {
		name   string
		record domain.Record
		want   domain.RecordKind
	}{
		{
			name: "no donor is an order",
			record: domain.Record{
				HasDonor:           false,
				Recipients:         []domain.Recipient{{Account: "bob"}},
				RecipientsQuantity: 1,
			},
			want: domain.Order,
		},
		{
			name: "donor without recipients is a pay",
			record: domain.Record{
				DonorAccount:       &donor,
				HasDonor:           true,
				RecipientsQuantity: 0,
			},
			want: domain.Pay,
		},
		{
			name: "donor among recipients is a buy",
			record: domain.Record{
				DonorAccount:       &donor,
				HasDonor:           true,
				Recipients:         []domain.Recipient{{Account: "alice"}, {Account: "bob"}},
				RecipientsQuantity: 2,
			},
			want: domain.Buy,
		},
		{
			name: "donor outside recipients is a give",
			record: domain.Record{
				DonorAccount:       &donor,
				HasDonor:           true,
				Recipients:         []domain.Recipient{{Account: "bob"}},
				RecipientsQuantity: 1,
			},
			want: domain.Give,
		},
		{
			name: "buy degrades to give when the donor was excluded",
			record: domain.Record{
				DonorAccount:       &donor,
				HasDonor:           true,
				Recipients:         []domain.Recipient{{Account: "bob"}},
				RecipientsQuantity: 2,
			},
			want: domain.Give,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Kind())
		})
	}
}

func TestRecord_UnfrozenShare(t *testing.T) {
	tests := []struct {
		name   string
		record domain.Record
		want   float64
	}{
		{
			name: "all recipients active",
			record: domain.Record{
				Amount:             300,
				RecipientsQuantity: 3,
				Recipients: []domain.Recipient{
					{Account: "a", Active: true},
					{Account: "b", Active: true},
					{Account: "c", Active: true},
				},
			},
			want: 100,
		},
		{
			name: "one recipient frozen",
			record: domain.Record{
				Amount:             300,
				RecipientsQuantity: 3,
				Recipients: []domain.Recipient{
					{Account: "a", Active: true},
					{Account: "b", Active: true},
					{Account: "c", Active: false},
				},
			},
			want: 150,
		},
		{
			name: "excluded recipient shrinks the non-deleted part",
			record: domain.Record{
				Amount:             300,
				RecipientsQuantity: 3,
				Recipients: []domain.Recipient{
					{Account: "a", Active: true},
					{Account: "b", Active: true},
				},
			},
			want: 100,
		},
		{
			name: "no active recipient left",
			record: domain.Record{
				Amount:             300,
				RecipientsQuantity: 3,
				Recipients: []domain.Recipient{
					{Account: "a", Active: false},
				},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.record.UnfrozenShare(), 1e-9)
		})
	}
}

func TestRecord_LiveAmount(t *testing.T) {
	rec := domain.Record{
		Amount:             300,
		RecipientsQuantity: 3,
		Recipients: []domain.Recipient{
			{Account: "a", Active: true},
			{Account: "b", Active: false},
		},
	}
	assert.InDelta(t, 200, rec.LiveAmount(), 1e-9)

	pay := domain.Record{Amount: 500, RecipientsQuantity: 0}
	assert.InDelta(t, 500, pay.LiveAmount(), 1e-9)
}

func TestMember_Kind(t *testing.T) {
	assert.Equal(t, domain.KindUser, domain.Member{Account: "123456"}.Kind())
	assert.Equal(t, domain.KindGhost, domain.Member{Account: "granny"}.Kind())
	assert.Equal(t, domain.KindGhost, domain.Member{Account: "bob42"}.Kind())
}
