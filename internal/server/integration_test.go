package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
	"github.com/xuri/excelize/v2"

	"github.com/zombor/invoice-normalizer/internal/llm"
	"github.com/zombor/invoice-normalizer/internal/mapping"
	"github.com/zombor/invoice-normalizer/internal/pipeline"
)

func salesWorkbook() []byte {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"ACME Ltd sales export"},
		{"InvoiceNo", "Customer", "Product", "Qty", "UnitPrice", "Date"},
		{"INV-100", "Jane Doe", "Widget", 2, 9.5, "03/07/2025"},
		{"INV-100", "Jane Doe", "Gadget", 1, 20, "03/07/2025"},
		{nil, "Nobody", "Stray", 4, 1, nil},
		{"INV-101", "John Roe", "Widget", 5, 9.5, "25/12/2024"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.SetSheetRow("Sheet1", cell, &row)).To(Succeed())
	}
	buf, err := f.WriteToBuffer()
	Expect(err).NotTo(HaveOccurred())
	return buf.Bytes()
}

var _ = Describe("Integration", func() {
	var (
		ollamaServer *ghttp.Server
		ghServer     *ghttp.Server
		client       *llm.Ollama
		err          error
	)

	BeforeEach(func() {
		ollamaServer = ghttp.NewServer()
		ollamaServer.AppendHandlers(ghttp.CombineHandlers(
			ghttp.VerifyRequest(http.MethodPost, "/api/chat"),
			ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{
				"message": map[string]string{
					"role":    "assistant",
					"content": "Here is the mapping you asked for:\n{\"serialNumber\": 0, \"customerName\": 1, \"product.name\": 2, \"product.quantity\": 3, \"product.unitPrice\": 4, \"date\": 5}\nLet me know if you need anything else.",
				},
				"done": true,
			}),
		))

		client, err = llm.NewOllama(ollamaServer.URL(), "llama3")
		Expect(err).NotTo(HaveOccurred())

		mapper := mapping.NewMapper(mapping.NewLLMOracle(client), time.Minute)
		service := pipeline.NewService(mapper, nil, 2)
		server := NewServer(service, BasicAuth{}, "test")

		ghServer = ghttp.NewServer()
		ghServer.AppendHandlers(server.ServeHTTP)
	})

	AfterEach(func() {
		ghServer.Close()
		ollamaServer.Close()
	})

	It("maps, extracts and groups an uploaded workbook", func() {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "sales.xlsx")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(salesWorkbook())
		Expect(err).NotTo(HaveOccurred())
		part, err = writer.CreateFormFile("file", "corrupt.xlsx")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("definitely not a zip"))
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, ghServer.URL()+"/api/extract", body)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var results []pipeline.FileResult
		Expect(json.NewDecoder(resp.Body).Decode(&results)).To(Succeed())
		Expect(results).To(HaveLen(2))
		Expect(ollamaServer.ReceivedRequests()).To(HaveLen(1))

		sales := results[0]
		Expect(sales.Error).To(BeEmpty())
		Expect(*sales.HeaderRow).To(Equal(1))
		Expect(sales.DroppedRows).To(Equal(1))
		Expect(sales.Invoices).To(HaveLen(2))

		first := sales.Invoices[0]
		Expect(first.SerialNumber).To(Equal("INV-100"))
		Expect(first.CustomerName).To(Equal("Jane Doe"))
		Expect(first.Date).To(Equal("2025-03-07"))
		Expect(first.Quantity).To(Equal(3.0))
		Expect(first.Products).To(HaveLen(2))
		Expect(first.Products[0].Name).To(Equal("Widget"))
		Expect(first.Products[1].Name).To(Equal("Gadget"))

		second := sales.Invoices[1]
		Expect(second.SerialNumber).To(Equal("INV-101"))
		Expect(second.Date).To(Equal("2024-12-25"))

		Expect(sales.Customers).To(HaveLen(2))

		Expect(results[1].Filename).To(Equal("corrupt.xlsx"))
		Expect(results[1].Error).To(ContainSubstring("unsupported spreadsheet format"))
	})
})
