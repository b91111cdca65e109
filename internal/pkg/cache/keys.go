package cache

import "strconv"

// Central key factory so every consumer derives keys the same way and
// prefix invalidation lines up across views.

// TransactionsKey covers every transaction-derived view.
func TransactionsKey() Key {
	return Key{"transactions"}
}

// MyPurchasesKey feeds the buyer's purchase list.
func MyPurchasesKey() Key {
	return Key{"transactions", "my-purchases"}
}

// TransactionDetailKey feeds a single transaction detail view.
func TransactionDetailKey(id int64) Key {
	return Key{"transactions", strconv.FormatInt(id, 10)}
}

// CatalogKey covers the public listing catalog.
func CatalogKey() Key {
	return Key{"catalog"}
}

// AdminTransactionsKey feeds the admin transaction table; state is the
// optional filter ("" for unfiltered).
func AdminTransactionsKey(state string) Key {
	if state == "" {
		return Key{"admin", "transactions"}
	}
	return Key{"admin", "transactions", state}
}

// AdminListingsKey feeds the admin moderation queue.
func AdminListingsKey(state string) Key {
	if state == "" {
		return Key{"admin", "listings"}
	}
	return Key{"admin", "listings", state}
}

// AdminKey covers every admin view.
func AdminKey() Key {
	return Key{"admin"}
}
