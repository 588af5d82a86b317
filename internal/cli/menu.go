// Package cli реализует текстовое меню магазина поверх io.Reader/io.Writer.
// Вся ценовая логика живёт в order и domain, здесь только ввод-вывод.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/order"
	"github.com/vladislavdragonenkov/storefront/internal/store"
)

const menuText = `
STORE MENU
----------
1. List all products in the store
2. Show total amount in the store
3. Make an order
4. Quit
`

// Menu связывает магазин и процессор заказов с консольным пользователем.
type Menu struct {
	store     *store.Store
	processor *order.Processor
	in        *bufio.Scanner
	out       io.Writer
	logger    *log.Entry
}

// NewMenu создаёт меню над произвольными потоками ввода-вывода.
func NewMenu(s *store.Store, p *order.Processor, in io.Reader, out io.Writer, logger *log.Entry) *Menu {
	if logger == nil {
		logger = log.New().WithField("component", "cli")
	}
	return &Menu{
		store:     s,
		processor: p,
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    logger,
	}
}

// Run крутит цикл меню до выбора Quit, конца ввода или отмены контекста.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(m.out, menuText)
		line, ok := m.prompt("Please choose a number (1-4): ")
		if !ok {
			return nil
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(m.out, "Invalid choice. Try again!")
			continue
		}

		switch choice {
		case 1:
			m.listProducts()
		case 2:
			m.showTotalQuantity()
		case 3:
			m.makeOrder()
		case 4:
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice. Try again!")
		}
	}
}

// prompt печатает приглашение и читает одну строку ввода.
func (m *Menu) prompt(text string) (string, bool) {
	fmt.Fprint(m.out, text)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

// listProducts печатает пронумерованный список активных товаров.
func (m *Menu) listProducts() {
	fmt.Fprintln(m.out, "------")
	for i, p := range m.store.ActiveProducts() {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, p.Describe())
	}
	fmt.Fprintln(m.out, "------")
}

func (m *Menu) showTotalQuantity() {
	fmt.Fprintf(m.out, "Total of %d items in the store\n", m.store.TotalQuantity())
}

// makeOrder собирает строки заказа и отдаёт их процессору одной партией.
func (m *Menu) makeOrder() {
	m.listProducts()
	fmt.Fprintln(m.out, "When you want to finish the order, enter empty text.")

	var requests []order.LineRequest

	for {
		available := m.store.ActiveProducts()
		if len(available) == 0 {
			fmt.Fprintln(m.out, "No products available for order.")
			break
		}

		itemText, ok := m.prompt("Which product # would you like to order? ")
		if !ok {
			break
		}
		qtyText, ok := m.prompt("What amount do you want? ")
		if !ok {
			break
		}

		if itemText == "" && qtyText == "" {
			break
		}

		index, indexErr := strconv.Atoi(strings.TrimSpace(itemText))
		qty, qtyErr := strconv.Atoi(strings.TrimSpace(qtyText))
		if indexErr != nil || qtyErr != nil {
			fmt.Fprintln(m.out, "Error adding product!")
			continue
		}
		if index < 1 || index > len(available) {
			fmt.Fprintln(m.out, "Invalid product number. Try again!")
			continue
		}

		requests = append(requests, order.LineRequest{Name: available[index-1].Name, Qty: qty})
		fmt.Fprintln(m.out, "Product added to list!")
	}

	if len(requests) == 0 {
		return
	}

	receipt, err := m.processor.ProcessOrder(requests)
	if err != nil {
		m.printOrderError(err)
		return
	}

	fmt.Fprintln(m.out, "********")
	for _, line := range receipt.Lines {
		if line.Promotion != "" {
			fmt.Fprintf(m.out, "%s x%d (%s): $%.2f\n", line.Name, line.Qty, line.Promotion, line.Total)
		} else {
			fmt.Fprintf(m.out, "%s x%d: $%.2f\n", line.Name, line.Qty, line.Total)
		}
	}
	fmt.Fprintf(m.out, "Order made! Total payment: $%.2f\n", receipt.Total)
	m.logger.WithFields(log.Fields{
		"order_id": receipt.ID,
		"total":    receipt.Total,
	}).Debug("заказ оформлен через меню")
}

// printOrderError показывает пользователю все причины отказа разом.
func (m *Menu) printOrderError(err error) {
	var rejection *order.RejectionError
	if errors.As(err, &rejection) {
		fmt.Fprintln(m.out, "Order rejected:")
		for _, f := range rejection.Failures {
			fmt.Fprintf(m.out, "  - %s x%d: %s\n", f.Name, f.Qty, failureText(f.Err))
		}
		return
	}
	fmt.Fprintf(m.out, "Error while making order! %v\n", err)
}

// failureText переводит доменную ошибку в сообщение для пользователя.
func failureText(err error) string {
	switch {
	case errors.Is(err, domain.ErrOutOfStock):
		return "not enough stock available"
	case errors.Is(err, domain.ErrOverLimit):
		return "quantity exceeds the per-order limit"
	case errors.Is(err, domain.ErrProductInactive):
		return "product is not for sale"
	case errors.Is(err, domain.ErrProductNotFound):
		return "no such product in the store"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "quantity must be a positive number"
	default:
		return err.Error()
	}
}
