package compliance

import "encoding/json"

// QRReferenceID tags the additional document reference that carries the QR payload
const QRReferenceID = "QR"

type documentReference struct {
	ID         string `json:"id"`
	Attachment *struct {
		EmbeddedDocumentBinaryObject *struct {
			Value string `json:"value"`
		} `json:"embeddedDocumentBinaryObject"`
	} `json:"attachment"`
}

type validationMessage struct {
	Message string `json:"message"`
}

type clearedDocument struct {
	AdditionalDocumentReference []documentReference `json:"additionalDocumentReference"`
	ValidationResults           *struct {
		ErrorMessages   []validationMessage `json:"errorMessages"`
		WarningMessages []validationMessage `json:"warningMessages"`
	} `json:"validationResults"`
}

// ExtractQRCode returns the embedded value of the "QR" additional document reference.
// The second result is false when the response carries no such entry.
func ExtractQRCode(data []byte) (string, bool) {
	var doc clearedDocument
	if len(data) == 0 || json.Unmarshal(data, &doc) != nil {
		return "", false
	}
	for _, ref := range doc.AdditionalDocumentReference {
		if ref.ID != QRReferenceID || ref.Attachment == nil || ref.Attachment.EmbeddedDocumentBinaryObject == nil {
			continue
		}
		if v := ref.Attachment.EmbeddedDocumentBinaryObject.Value; v != "" {
			return v, true
		}
	}
	return "", false
}

// ExtractValidationMessages returns the error and warning texts reported by the authority
func ExtractValidationMessages(data []byte) (errs, warnings []string) {
	var doc clearedDocument
	if len(data) == 0 || json.Unmarshal(data, &doc) != nil || doc.ValidationResults == nil {
		return nil, nil
	}
	for _, m := range doc.ValidationResults.ErrorMessages {
		errs = append(errs, m.Message)
	}
	for _, m := range doc.ValidationResults.WarningMessages {
		warnings = append(warnings, m.Message)
	}
	return errs, warnings
}
