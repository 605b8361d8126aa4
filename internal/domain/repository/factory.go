package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Products() ProductRepository
	Addresses() AddressRepository
	Orders() OrderRepository
	Transactions() TransactionRepository
}
