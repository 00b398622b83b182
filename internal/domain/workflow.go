package domain

import (
	"fmt"
)

// DocumentType is the fixed set of document kinds an offer can carry
type DocumentType string

const (
	DocumentTypePurchaseAgreement  DocumentType = "Purchase Agreement"
	DocumentTypePreApprovalLetter  DocumentType = "Pre-Approval Letter"
	DocumentTypeProofOfFunds       DocumentType = "Proof of Funds"
	DocumentTypeDisclosurePacket   DocumentType = "Disclosure Signature Packet"
	DocumentTypeSupportingDocument DocumentType = "Supporting Document"
)

// DocumentTypes lists every valid document type in display order
var DocumentTypes = []DocumentType{
	DocumentTypePurchaseAgreement,
	DocumentTypePreApprovalLetter,
	DocumentTypeProofOfFunds,
	DocumentTypeDisclosurePacket,
	DocumentTypeSupportingDocument,
}

// IsValid reports whether t is one of DocumentTypes
func (t DocumentType) IsValid() bool {
	for _, known := range DocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DocumentStatus is the upload state of a document entry
type DocumentStatus string

const (
	DocumentStatusUploading DocumentStatus = "uploading"
	DocumentStatusUploaded  DocumentStatus = "uploaded"
)

// DocumentSource records how a confirmed document got into the workflow
type DocumentSource string

const (
	DocumentSourceUpload   DocumentSource = "upload"
	DocumentSourceAnalysis DocumentSource = "analysis"
	DocumentSourceListing  DocumentSource = "listing"
)

// DocumentEntry is either an UploadingDocument or a Document.
// The set is closed: only this package can add variants.
type DocumentEntry interface {
	EntryID() string
	Status() DocumentStatus
	isDocumentEntry()
}

// UploadingDocument is a placeholder shown while an upload is in flight.
// It has no server id and must never be submitted.
type UploadingDocument struct {
	TempID         string
	Title          string
	Type           DocumentType
	Size           int64
	SendForSigning bool
}

func (d UploadingDocument) EntryID() string        { return d.TempID }
func (d UploadingDocument) Status() DocumentStatus { return DocumentStatusUploading }
func (UploadingDocument) isDocumentEntry()         {}

// Document is a server-confirmed document
type Document struct {
	ID             string
	Title          string
	Type           DocumentType
	Size           int64
	Pages          int
	SendForSigning bool
	// Deleted marks a soft-removed disclosure packet that can still be restored
	Deleted bool
	Source  DocumentSource
}

func (d Document) EntryID() string        { return d.ID }
func (d Document) Status() DocumentStatus { return DocumentStatusUploaded }
func (Document) isDocumentEntry()         {}

// PurchaseAgreementMode is how the buyer provides the purchase agreement
type PurchaseAgreementMode string

const (
	PurchaseAgreementUpload   PurchaseAgreementMode = "upload"
	PurchaseAgreementGenerate PurchaseAgreementMode = "generate"
	PurchaseAgreementSkip     PurchaseAgreementMode = "skip"
)

// PurchaseAgreement is the purchase agreement choice of a workflow
type PurchaseAgreement struct {
	Mode          PurchaseAgreementMode
	DocumentID    string
	CanRegenerate bool
}

// ConnectionStatus is the e-signature provider connection state
type ConnectionStatus string

const (
	ConnectionNotConfigured    ConnectionStatus = "not_configured"
	ConnectionAwaitingCallback ConnectionStatus = "awaiting_callback"
	ConnectionConnecting       ConnectionStatus = "connecting"
	ConnectionReady            ConnectionStatus = "ready"
)

type RecipientType string

const (
	RecipientTypeAgent RecipientType = "agent"
	RecipientTypeBuyer RecipientType = "buyer"
)

type RecipientRole string

const (
	RecipientRoleAgent  RecipientRole = "agent"
	RecipientRoleSigner RecipientRole = "signer"
)

// Recipient is a party that signs through the e-signature provider
type Recipient struct {
	ID       string
	Type     RecipientType
	Role     RecipientRole
	Name     string
	Email    string
	Required bool
	// Order is the signing order, contiguous from 1 within a workflow
	Order int
}

// Signing is the e-signature configuration of a workflow
type Signing struct {
	DocuSignConnected bool
	Status            ConnectionStatus
	Recipients        []Recipient
	Skip              bool
}

// DocumentWorkflow is the set of documents and signing configuration attached to one offer
type DocumentWorkflow struct {
	Documents         []DocumentEntry
	PurchaseAgreement PurchaseAgreement
	Signing           Signing
}

// NewDocumentWorkflow returns an empty workflow with the provider not configured
func NewDocumentWorkflow() DocumentWorkflow {
	return DocumentWorkflow{
		Signing: Signing{Status: ConnectionNotConfigured},
	}
}

// Clone returns a copy that shares no slices with w
func (w DocumentWorkflow) Clone() DocumentWorkflow {
	out := w
	out.Documents = append([]DocumentEntry(nil), w.Documents...)
	out.Signing.Recipients = append([]Recipient(nil), w.Signing.Recipients...)
	return out
}

// Confirmed returns the server-confirmed documents, soft-removed ones included
func (w *DocumentWorkflow) Confirmed() []Document {
	docs := make([]Document, 0, len(w.Documents))
	for _, entry := range w.Documents {
		if doc, ok := entry.(Document); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// Active returns confirmed documents that are not soft-removed
func (w *DocumentWorkflow) Active() []Document {
	var docs []Document
	for _, doc := range w.Confirmed() {
		if !doc.Deleted {
			docs = append(docs, doc)
		}
	}
	return docs
}

// DocumentsForSigning returns active documents selected for signing
func (w *DocumentWorkflow) DocumentsForSigning() []Document {
	var docs []Document
	for _, doc := range w.Active() {
		if doc.SendForSigning {
			docs = append(docs, doc)
		}
	}
	return docs
}

// SigningEnabled reports whether any document is selected for signing and signing is not skipped
func (w *DocumentWorkflow) SigningEnabled() bool {
	return !w.Signing.Skip && len(w.DocumentsForSigning()) > 0
}

// HasPurchaseAgreement reports whether an active purchase agreement document is attached
func (w *DocumentWorkflow) HasPurchaseAgreement() bool {
	for _, doc := range w.Active() {
		if doc.Type == DocumentTypePurchaseAgreement {
			return true
		}
	}
	return false
}

// HasPending reports whether any upload is still in flight
func (w *DocumentWorkflow) HasPending() bool {
	for _, entry := range w.Documents {
		if entry.Status() == DocumentStatusUploading {
			return true
		}
	}
	return false
}

// Document returns the confirmed document with the given id
func (w *DocumentWorkflow) Document(id string) (Document, bool) {
	idx := w.indexOf(id)
	if idx < 0 {
		return Document{}, false
	}
	doc, ok := w.Documents[idx].(Document)
	return doc, ok
}

func (w *DocumentWorkflow) indexOf(id string) int {
	for i, entry := range w.Documents {
		if entry.EntryID() == id {
			return i
		}
	}
	return -1
}

func (w *DocumentWorkflow) confirmedIndex(id string) (int, Document, error) {
	idx := w.indexOf(id)
	if idx < 0 {
		return -1, Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	doc, ok := w.Documents[idx].(Document)
	if !ok {
		return -1, Document{}, fmt.Errorf("%w: %s", ErrDocumentUploading, id)
	}
	return idx, doc, nil
}

// AddPlaceholder appends an in-flight upload entry
func (w *DocumentWorkflow) AddPlaceholder(p UploadingDocument) {
	w.Documents = append(w.Documents, p)
}

// ConfirmPlaceholder swaps the placeholder for the server-confirmed document, keeping its position.
// If the placeholder is gone the document is appended.
func (w *DocumentWorkflow) ConfirmPlaceholder(tempID string, doc Document) {
	for i, entry := range w.Documents {
		if p, ok := entry.(UploadingDocument); ok && p.TempID == tempID {
			w.Documents[i] = doc
			return
		}
	}
	w.Documents = append(w.Documents, doc)
}

// DiscardPlaceholder removes an in-flight entry; it reports whether one was removed
func (w *DocumentWorkflow) DiscardPlaceholder(tempID string) bool {
	for i, entry := range w.Documents {
		if p, ok := entry.(UploadingDocument); ok && p.TempID == tempID {
			w.Documents = append(w.Documents[:i], w.Documents[i+1:]...)
			return true
		}
	}
	return false
}

// AddDocument appends a confirmed document, replacing any entry with the same id
func (w *DocumentWorkflow) AddDocument(doc Document) {
	if idx := w.indexOf(doc.ID); idx >= 0 {
		w.Documents[idx] = doc
		return
	}
	w.Documents = append(w.Documents, doc)
}

// RemoveDocument deletes a confirmed document from the list
func (w *DocumentWorkflow) RemoveDocument(id string) error {
	idx, doc, err := w.confirmedIndex(id)
	if err != nil {
		return err
	}
	w.Documents = append(w.Documents[:idx], w.Documents[idx+1:]...)
	if w.PurchaseAgreement.DocumentID == doc.ID {
		w.PurchaseAgreement.DocumentID = ""
	}
	return nil
}

// SoftRemove hides the disclosure packet without deleting it
func (w *DocumentWorkflow) SoftRemove(id string) error {
	idx, doc, err := w.confirmedIndex(id)
	if err != nil {
		return err
	}
	if doc.Type != DocumentTypeDisclosurePacket {
		return fmt.Errorf("%w: %s", ErrNotSoftRemovable, doc.Type)
	}
	doc.Deleted = true
	doc.SendForSigning = false
	w.Documents[idx] = doc
	return nil
}

// Restore undoes SoftRemove
func (w *DocumentWorkflow) Restore(id string) error {
	idx, doc, err := w.confirmedIndex(id)
	if err != nil {
		return err
	}
	if !doc.Deleted {
		return fmt.Errorf("%w: %s", ErrDocumentNotDeleted, id)
	}
	doc.Deleted = false
	w.Documents[idx] = doc
	return nil
}

// SetDocumentType changes a document's type in place
func (w *DocumentWorkflow) SetDocumentType(id string, t DocumentType) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentType, t)
	}
	idx, doc, err := w.confirmedIndex(id)
	if err != nil {
		return err
	}
	doc.Type = t
	w.Documents[idx] = doc
	return nil
}

// SetSendForSigning toggles a document's signing flag in place and clears any skip-signing choice
func (w *DocumentWorkflow) SetSendForSigning(id string, send bool) error {
	idx, doc, err := w.confirmedIndex(id)
	if err != nil {
		return err
	}
	if doc.Deleted {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	doc.SendForSigning = send
	w.Documents[idx] = doc
	w.Signing.Skip = false
	return nil
}

// SkipSigning clears every signing flag and records that signing is skipped
func (w *DocumentWorkflow) SkipSigning() {
	for i, entry := range w.Documents {
		switch e := entry.(type) {
		case Document:
			e.SendForSigning = false
			w.Documents[i] = e
		case UploadingDocument:
			e.SendForSigning = false
			w.Documents[i] = e
		}
	}
	w.Signing.Skip = true
}

// AddRecipient appends r with the next signing order and returns the stored recipient
func (w *DocumentWorkflow) AddRecipient(r Recipient) Recipient {
	r.Order = len(w.Signing.Recipients) + 1
	w.Signing.Recipients = append(w.Signing.Recipients, r)
	return r
}

// RemoveRecipient deletes a non-required recipient and resequences the remaining orders from 1
func (w *DocumentWorkflow) RemoveRecipient(id string) error {
	idx := -1
	for i, r := range w.Signing.Recipients {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRecipientNotFound, id)
	}
	if w.Signing.Recipients[idx].Required {
		return fmt.Errorf("%w: %s", ErrRecipientRequired, id)
	}

	w.Signing.Recipients = append(w.Signing.Recipients[:idx], w.Signing.Recipients[idx+1:]...)
	for i := range w.Signing.Recipients {
		w.Signing.Recipients[i].Order = i + 1
	}
	return nil
}

// UpdateRecipient changes a recipient's name and email
func (w *DocumentWorkflow) UpdateRecipient(id, name, email string) error {
	for i := range w.Signing.Recipients {
		if w.Signing.Recipients[i].ID == id {
			w.Signing.Recipients[i].Name = name
			w.Signing.Recipients[i].Email = email
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRecipientNotFound, id)
}

// SetConnection records the e-signature provider connection state
func (w *DocumentWorkflow) SetConnection(status ConnectionStatus) {
	w.Signing.Status = status
	w.Signing.DocuSignConnected = status == ConnectionReady
}
