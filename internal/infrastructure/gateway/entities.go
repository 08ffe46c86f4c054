package gateway

import (
	"context"

	"github.com/bookingops/console/internal/domain/catalog"
	"github.com/bookingops/console/internal/domain/finance"
	"github.com/bookingops/console/internal/domain/partner"
	"github.com/bookingops/console/internal/domain/promotion"
	"github.com/bookingops/console/internal/domain/shared"
)

// Selections per entity. List selections only carry the columns of the list screens.
const (
	categoryListFields = `_id code name description parentId ancestorIds isActive imageUrls createdAt updatedAt deactivatedAt`
	categoryFields     = categoryListFields

	itemListFields = `_id name subName price categoryId category { _id name } estTime imageUrls createdAt updatedAt`
	itemFields     = `_id name subName tags categoryId category { _id name } optionIds options { _id name } estTime createdAt updatedAt imageUrls price minQuantity maxQuantity content`

	optionListFields = `_id name categoryId category { _id name } price estTime isActive createdAt updatedAt`
	optionFields     = `_id name categoryId category { _id name } price estTime imageUrls minQuantity maxQuantity isActive createdAt updatedAt`

	campaignListFields = `_id name type code status startDate endDate redemptionAmountLimit usedAmount usedCount isActive createdAt`
	campaignFields     = `_id name type code startDate endDate isActive status redemptionAmountLimit usedAmount usedCount createdAt updatedAt description targets { ids type condition promotionType value }`

	workerListFields = `_id firstName lastName fullName phoneNumber email gender role isAvailable categoryId imageUrl createdAt`
	workerFields     = `_id firstName lastName fullName phoneNumber email dob gender role isAvailable categoryId imageUrl createdAt updatedAt`

	customerListFields = `_id firstName lastName phoneNumber email city address createdAt`
	customerFields     = `_id firstName lastName gender dob phoneNumber email city district ward address createdAt updatedAt imageUrl`

	transactionListFields = `_id amount paymentMethod status note userId createdAt`
	transactionFields     = `_id amount paymentMethod status note userId createdAt updatedAt`
)

// NewCategoryRepository binds the category collection
func NewCategoryRepository(c *Client) catalog.CategoryRepository {
	return newCollection[catalog.Category, catalog.CategoryInput](c, "Category", categoryListFields, categoryFields)
}

// NewItemRepository binds the item collection
func NewItemRepository(c *Client) catalog.ItemRepository {
	return newCollection[catalog.Item, catalog.ItemInput](c, "Item", itemListFields, itemFields)
}

// NewOptionRepository binds the option collection
func NewOptionRepository(c *Client) catalog.OptionRepository {
	return newCollection[catalog.Option, catalog.OptionInput](c, "Option", optionListFields, optionFields)
}

// NewCampaignRepository binds the campaign collection
func NewCampaignRepository(c *Client) promotion.CampaignRepository {
	return campaigns{newCollection[promotion.Campaign, promotion.CampaignInput](c, "Campaign", campaignListFields, campaignFields)}
}

// campaigns updates with a narrower input than it creates with
type campaigns struct {
	*collection[promotion.Campaign, promotion.CampaignInput]
}

// Update implements shared.Updater
func (r campaigns) Update(ctx context.Context, id string, input promotion.CampaignUpdateInput) error {
	return r.client.updateByID(ctx, "updateCampaignById", "CampaignUpdateInput", id, input)
}

// NewWorkerRepository binds the worker collection
func NewWorkerRepository(c *Client) partner.WorkerRepository {
	return newCollection[partner.Worker, partner.WorkerInput](c, "Worker", workerListFields, workerFields)
}

// NewCustomerRepository binds the customer collection. The API has no createCustomer.
func NewCustomerRepository(c *Client) partner.CustomerRepository {
	return newCollection[partner.Customer, partner.CustomerInput](c, "Customer", customerListFields, customerFields)
}

// NewTransactionRepository binds the transaction collection
func NewTransactionRepository(c *Client) finance.TransactionRepository {
	return newCollection[finance.Transaction, finance.TransactionInput](c, "Transaction", transactionListFields, transactionFields)
}

var (
	_ shared.Repository[catalog.Category, catalog.CategoryInput] = (*collection[catalog.Category, catalog.CategoryInput])(nil)
	_ promotion.CampaignRepository                               = campaigns{}
	_ shared.Reader[finance.Transaction]                         = (*collection[finance.Transaction, finance.TransactionInput])(nil)
	_ shared.Updater[partner.CustomerInput]                      = (*collection[partner.Customer, partner.CustomerInput])(nil)
)
