package usecases

// SecretKeeper encrypts plaintext secrets for storage. The inverse
// operation lives on instance.SecretResolver; handlers only ever need
// the encrypting half.
type SecretKeeper interface {
	Encrypt(plaintext string) (string, error)
}
