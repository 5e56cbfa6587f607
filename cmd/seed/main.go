package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"proptoken/internal/database"
	"proptoken/internal/domain"
	"proptoken/internal/modules/notification"
	"proptoken/internal/modules/upload"
	"proptoken/internal/modules/wallet"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "proptoken.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.VerificationRequest{},
		&domain.Property{},
		&domain.TokenIssuance{},
		&domain.TokenPurchase{},
		&domain.RefreshToken{},
		&wallet.Wallet{},
		&wallet.Transaction{},
		&notification.Notification{},
		&upload.Upload{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM wallet_transactions")
	db.Exec("DELETE FROM wallets")
	db.Exec("DELETE FROM token_purchases")
	db.Exec("DELETE FROM token_issuances")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM verification_requests")
	db.Exec("DELETE FROM refresh_tokens")
	db.Exec("DELETE FROM uploads")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@proptoken.io",
		PasswordHash: string(adminHash),
		FullName:     "Platform Admin",
		Role:         domain.RoleAdmin,
		Mode:         domain.ModeBuyer,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@proptoken.io / admin123")

	sellerHash, _ := bcrypt.GenerateFromPassword([]byte("seller123"), bcrypt.DefaultCost)
	seller := domain.User{
		Email:              "seller@proptoken.io",
		PasswordHash:       string(sellerHash),
		FullName:           "Demo Seller",
		Phone:              "+1 555 010 2001",
		Role:               domain.RoleSeller,
		Mode:               domain.ModeSeller,
		VerificationStatus: domain.VerificationApproved,
	}
	db.Create(&seller)
	log.Println("Seller created: seller@proptoken.io / seller123")

	buyerHash, _ := bcrypt.GenerateFromPassword([]byte("buyer123"), bcrypt.DefaultCost)
	buyer := domain.User{
		Email:              "buyer@proptoken.io",
		PasswordHash:       string(buyerHash),
		FullName:           "Demo Buyer",
		Phone:              "+1 555 010 2002",
		Role:               domain.RoleBuyer,
		Mode:               domain.ModeBuyer,
		VerificationStatus: domain.VerificationUnverified,
	}
	db.Create(&buyer)
	log.Println("Buyer created: buyer@proptoken.io / buyer123")

	log.Println("Creating approved verification for the seller...")
	now := time.Now().UTC()
	req := domain.VerificationRequest{
		UserID:     seller.ID,
		Status:     domain.VerificationApproved,
		ReviewedBy: &admin.ID,
		VerifiedAt: &now,
	}
	_ = req.SetSubmittedData(&domain.SubmissionData{
		Kind: domain.KindIndividual,
		Individual: &domain.IndividualData{
			FirstName:      "Demo",
			LastName:       "Seller",
			DateOfBirth:    "1985-04-12",
			Nationality:    "US",
			IDDocumentType: "passport",
			IDDocumentRef:  "P1234567",
			Address: domain.SubmissionAddress{
				Street:     "12 Harbor Lane",
				City:       "Austin",
				State:      "TX",
				PostalCode: "78701",
				Country:    "US",
			},
		},
	})
	db.Create(&req)

	log.Println("Creating a tokenized property...")
	property := domain.Property{
		OwnerID:      seller.ID,
		Title:        "Riverside Apartments",
		Address:      "400 River St, Austin, TX",
		PropertyType: domain.PropertyResidential,
		Valuation:    decimal.NewFromInt(1_000_000),
		Description:  "24-unit residential complex with stable occupancy.",
		Status:       domain.PropertyTokenized,
	}
	db.Create(&property)

	issuance := domain.TokenIssuance{
		PropertyID:      property.ID,
		TotalTokens:     10000,
		AvailableTokens: 10000,
		PricePerToken:   decimal.NewFromInt(100),
	}
	db.Create(&issuance)

	log.Println("Creating a pending property...")
	pending := domain.Property{
		OwnerID:      seller.ID,
		Title:        "Downtown Office Suites",
		Address:      "88 Commerce Ave, Austin, TX",
		PropertyType: domain.PropertyCommercial,
		Valuation:    decimal.NewFromInt(2_500_000),
		Status:       domain.PropertyPending,
	}
	db.Create(&pending)

	log.Println("Opening wallets...")
	wallets := wallet.NewService(db, decimal.NewFromInt(100_000))
	for _, u := range []domain.User{admin, seller, buyer} {
		if _, err := wallets.GetOrCreateWallet(context.Background(), u.ID); err != nil {
			log.Println("wallet creation failed for", u.Email, ":", err)
		}
	}

	log.Println("Seed complete.")
}
