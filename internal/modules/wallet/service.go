package wallet

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

type Service struct {
	db       *gorm.DB
	treasury string
}

func NewService(db *gorm.DB, treasury string) *Service {
	return &Service{db: db, treasury: treasury}
}

func (s *Service) GetOrCreateWallet(ctx context.Context, address string) (*Wallet, error) {
	wallet, err := s.getWalletByAddress(ctx, address)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = &Wallet{Address: address, Balance: 0}
	if err := s.db.WithContext(ctx).Create(wallet).Error; err != nil {
		if isUniqueConstraintError(err) {
			return s.getWalletByAddress(ctx, address)
		}
		return nil, err
	}
	return wallet, nil
}

func (s *Service) Add(ctx context.Context, address string, amount int64) (*Wallet, *Transaction, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	var wallet Wallet
	var txn Transaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := getOrCreateWalletForUpdate(tx, address, &wallet); err != nil {
			return err
		}

		wallet.Balance += amount
		if err := tx.Model(&Wallet{}).Where("id = ?", wallet.ID).Update("balance", wallet.Balance).Error; err != nil {
			return err
		}

		txn = Transaction{WalletID: wallet.ID, Amount: amount, Type: TransactionTypeAdd}
		return tx.Create(&txn).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &wallet, &txn, nil
}

// SettleBooking moves the attached payment for one booking in a single
// database transaction: the payer is debited the full payment, the
// treasury is credited the required amount and the surplus is refunded
// to the payer. The payer's net change is exactly -required. Any
// failure rolls the whole settlement back.
func (s *Service) SettleBooking(ctx context.Context, payer string, payment, required int64) error {
	if payment < 0 || required < 0 || payment < required {
		return ErrInvalidAmount
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payerWallet Wallet
		if err := getOrCreateWalletForUpdate(tx, payer, &payerWallet); err != nil {
			return err
		}
		if payerWallet.Balance < payment {
			return ErrInsufficientFunds
		}

		surplus := payment - required

		journal := []Transaction{
			{WalletID: payerWallet.ID, Amount: payment, Type: TransactionTypeSpend},
		}
		if surplus > 0 {
			journal = append(journal, Transaction{WalletID: payerWallet.ID, Amount: surplus, Type: TransactionTypeRefund})
		}

		if payer == s.treasury {
			// Administrator booking into the house account: the spend,
			// refund and retained amount land on the same wallet.
			journal = append(journal, Transaction{WalletID: payerWallet.ID, Amount: required, Type: TransactionTypeAdd})
			if err := tx.Create(&journal).Error; err != nil {
				return err
			}
			return nil
		}

		payerWallet.Balance -= required
		if err := tx.Model(&Wallet{}).Where("id = ?", payerWallet.ID).Update("balance", payerWallet.Balance).Error; err != nil {
			return err
		}

		var treasuryWallet Wallet
		if err := getOrCreateWalletForUpdate(tx, s.treasury, &treasuryWallet); err != nil {
			return err
		}
		treasuryWallet.Balance += required
		if err := tx.Model(&Wallet{}).Where("id = ?", treasuryWallet.ID).Update("balance", treasuryWallet.Balance).Error; err != nil {
			return err
		}

		journal = append(journal, Transaction{WalletID: treasuryWallet.ID, Amount: required, Type: TransactionTypeAdd})
		return tx.Create(&journal).Error
	})
}

func (s *Service) ListTransactions(ctx context.Context, address string) ([]Transaction, error) {
	wallet, err := s.GetOrCreateWallet(ctx, address)
	if err != nil {
		return nil, err
	}

	var txns []Transaction
	if err := s.db.WithContext(ctx).Where("wallet_id = ?", wallet.ID).Order("created_at desc").Find(&txns).Error; err != nil {
		return nil, err
	}

	return txns, nil
}

func (s *Service) getWalletByAddress(ctx context.Context, address string) (*Wallet, error) {
	var wallet Wallet
	if err := s.db.WithContext(ctx).Where("address = ?", address).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func getOrCreateWalletForUpdate(tx *gorm.DB, address string, wallet *Wallet) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("address = ?", address).First(wallet).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		*wallet = Wallet{Address: address, Balance: 0}
		if err := tx.Create(wallet).Error; err != nil {
			if isUniqueConstraintError(err) {
				return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("address = ?", address).First(wallet).Error
			}
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
