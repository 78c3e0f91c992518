// Package volunteer manages volunteer records: creation, lookup, partial
// updates, deletion, listing and proximity search.
//
// Manager is the entry point. It reads through a cache.CacheService, falls
// back to a Store on miss and evicts the affected cache keys after every
// committed write. Document attributes (skills, interests, availability and
// drive history) are typed here and only encoded at the store boundary.
//
// Errors returned by Manager are *goerrors.Error values. Use IsNotFound,
// IsDuplicateKey, IsInvalidArgument and IsStoreFailure to classify them.
package volunteer
