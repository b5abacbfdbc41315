package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/letsssgooo/checklist/internal/domain/models"
	"github.com/letsssgooo/checklist/internal/form"
	"github.com/letsssgooo/checklist/internal/photo"
)

// runBatch заполняет форму из флагов, регистрирует пользователя и отправляет чеклист.
// Результат печатается в out.
func runBatch(
	ctx context.Context,
	ctrl *form.Controller,
	loader *photo.Loader,
	timeout time.Duration,
	opts options,
	out io.Writer,
) error {
	role, err := models.ParseRole(opts.role)
	if err != nil {
		return err
	}

	if err := fillForm(ctrl, role, opts); err != nil {
		return err
	}

	photos, err := loader.LoadAll(opts.photos)
	if err != nil {
		return err
	}
	ctrl.SelectPhotos(photos)

	regCtx, cancel := context.WithTimeout(ctx, timeout)
	user, err := ctrl.Register(regCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	fmt.Fprintf(out, "%s %s\n", color.CyanString("Пользователь:"), user.ID)

	submitCtx, cancel := context.WithTimeout(ctx, timeout)
	result, err := ctrl.Submit(submitCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("submit checklist: %w", err)
	}

	fmt.Fprintf(out, "%s %s\n", color.CyanString("Результат отправки:"), color.GreenString(result.Text()))
	return nil
}

func fillForm(ctrl *form.Controller, role models.Role, opts options) error {
	if err := ctrl.SetRole(role); err != nil {
		return err
	}

	fields := []struct {
		field form.Field
		value string
	}{
		{form.FieldFIO, opts.fio},
		{form.FieldSectionID, strconv.Itoa(opts.section)},
		{form.FieldScore, strconv.Itoa(opts.score)},
		{form.FieldComments, opts.comments},
	}
	for _, f := range fields {
		if err := ctrl.EditField(f.field, f.value); err != nil {
			return err
		}
	}
	return nil
}
