package commands

import (
	"fmt"
	"io"

	cryptoService "github.com/allisson/modelguard/internal/crypto/service"
)

// RunGenerateKMSKey prints a base64key:// keeper URI holding a fresh random key.
//
// The local keeper is meant for development and devices without a KMS. Production
// deployments point KMS_KEY_URI at awskms, gcpkms, azurekeyvault or hashivault.
func RunGenerateKMSKey(kms cryptoService.KMSService, writer io.Writer) error {
	uri, err := kms.NewLocalKeyURI()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, "# Local KMS key. Keep it outside the data directory.")
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%q\n", uri)
	return nil
}
