// Package tesseract runs OCR locally through libtesseract. Build with -tags tesseract.
package tesseract
