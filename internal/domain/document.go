package domain

import "time"

// Document es una entrada del listado de documentos descargables.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadDate time.Time `json:"uploadDate"`
	Size       string    `json:"size"`
}

// DownloadedFile es un objeto de almacenamiento ya leido por completo en memoria.
type DownloadedFile struct {
	Name          string
	ContentType   string
	ContentLength int64
	Data          []byte
}
